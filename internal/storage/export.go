package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/hexcpg/internal/experiment"
	"github.com/san-kum/hexcpg/internal/gait"
)

type ExportData struct {
	Encoding   string             `json:"encoding"`
	Params     []float64          `json:"params"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	Angles     []gait.Angles      `json:"angles"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

func ExportJSON(w io.Writer, trace *experiment.Trace, metrics map[string]float64) error {
	data := ExportData{
		Encoding:   trace.Encoding,
		Params:     trace.Params,
		Integrator: trace.Integrator,
		Dt:         trace.Dt,
		Duration:   trace.Duration,
		Steps:      len(trace.Times),
		Times:      trace.Times,
		Angles:     trace.Angles,
		Metrics:    metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes one row per sample with a time column and one column per
// leg, optionally restricted to the given legs.
func ExportCSV(w io.Writer, trace *experiment.Trace, legs []int) error {
	if len(legs) == 0 {
		legs = []int{0, 1, 2, 3, 4, 5}
	}

	cw := csv.NewWriter(w)
	header := []string{"time"}
	for _, leg := range legs {
		header = append(header, fmt.Sprintf("leg%d", leg))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range trace.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, leg := range legs {
			row = append(row, strconv.FormatFloat(trace.Angles[i][leg], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
