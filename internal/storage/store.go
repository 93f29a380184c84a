package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/experiment"
	"github.com/san-kum/hexcpg/internal/gait"
)

const (
	metadataFile = "metadata.json"
	anglesFile   = "angles.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Encoding   string             `json:"encoding"`
	Params     []float64          `json:"params"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Preset     string             `json:"preset,omitempty"`
	Mask       []int              `json:"mask,omitempty"`
	Samples    int                `json:"samples"`
	Failure    string             `json:"failure,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes the trace under a new run directory and returns its ID.
func (s *Store) Save(trace *experiment.Trace, preset string, metrics map[string]float64) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", strings.ReplaceAll(trace.Encoding, "/", "-"), ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Encoding:   trace.Encoding,
		Params:     trace.Params,
		Timestamp:  ts,
		Dt:         trace.Dt,
		Duration:   trace.Duration,
		Integrator: trace.Integrator,
		Preset:     preset,
		Mask:       trace.Mask,
		Samples:    len(trace.Times),
		Metrics:    metrics,
	}
	if trace.Err != nil {
		meta.Failure = trace.Err.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeAngles(filepath.Join(runDir, anglesFile), trace); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeAngles(path string, trace *experiment.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time"}
	for i := 0; i < dynamo.NumLegs; i++ {
		header = append(header, fmt.Sprintf("leg%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range trace.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, a := range trace.Angles[i] {
			row = append(row, strconv.FormatFloat(a, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadAngles reads a run's samples back. Rows that fail to parse are
// skipped.
func (s *Store) LoadAngles(runID string) ([]gait.Angles, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, anglesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []gait.Angles{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	angles := make([]gait.Angles, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != dynamo.NumLegs+1 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		var a gait.Angles
		ok := true
		for leg := range a {
			a[leg], err = strconv.ParseFloat(record[leg+1], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		times = append(times, t)
		angles = append(angles, a)
	}

	return angles, times, nil
}

// LoadTrace rebuilds a trace from disk, without the original failure value.
func (s *Store) LoadTrace(runID string) (*experiment.Trace, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	angles, times, err := s.LoadAngles(runID)
	if err != nil {
		return nil, nil, err
	}
	return &experiment.Trace{
		Encoding:   meta.Encoding,
		Params:     meta.Params,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Mask:       meta.Mask,
		Times:      times,
		Angles:     angles,
		StepsTaken: len(times) - 1,
	}, meta, nil
}

// Path returns the on-disk directory of a run.
func (s *Store) Path(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
