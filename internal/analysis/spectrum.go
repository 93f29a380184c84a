package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

var (
	ErrShortSeries  = errors.New("analysis: series too short")
	ErrFlatSpectrum = errors.New("analysis: no periodic component")
	ErrNoCrossings  = errors.New("analysis: not enough cycle crossings")
)

const minSpectrumInput = 8

// PowerSpectrum returns the magnitude of the first half of the real FFT.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// velocity returns the mean-free finite difference of series.
func velocity(series []float64, dt float64) []float64 {
	v := make([]float64, len(series)-1)
	mean := 0.0
	for i := range v {
		v[i] = (series[i+1] - series[i]) / dt
		mean += v[i]
	}
	mean /= float64(len(v))
	for i := range v {
		v[i] -= mean
	}
	return v
}

// DominantFrequency estimates the stepping frequency in Hz. Joint commands
// grow without bound, so the spectrum is taken of the angular velocity,
// which repeats once per cycle whenever stance and swing speeds differ.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	if len(series) < minSpectrumInput+1 || dt <= 0 {
		return 0, ErrShortSeries
	}

	v := velocity(series, dt)
	energy := 0.0
	for _, x := range v {
		energy += x * x
	}
	if energy/float64(len(v)) < 1e-12 {
		return 0, ErrFlatSpectrum
	}

	window.Apply(v, window.Hann)
	ps := PowerSpectrum(v)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}

	// parabolic interpolation between neighbouring bins
	offset := 0.0
	if peak > 0 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			offset = 0.5 * (a - c) / d
		}
	}
	return (float64(peak) + offset) / (float64(len(v)) * dt), nil
}

// MeanRate is the average advance of series in turns per second.
func MeanRate(series, times []float64) float64 {
	n := len(series)
	if n < 2 || len(times) != n {
		return 0
	}
	span := times[n-1] - times[0]
	if span <= 0 {
		return 0
	}
	return (series[n-1] - series[0]) / (2 * math.Pi * span)
}
