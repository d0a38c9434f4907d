// Package storage persists simulation runs under a base directory: one
// subdirectory per run holding a metadata.json with the configuration and
// cycle aggregates, plus a metrics.csv with the per-frame samples.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/valveflow/internal/config"
	"github.com/san-kum/valveflow/internal/metrics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID              string              `json:"id"`
	Timestamp       time.Time           `json:"timestamp"`
	Resolution      int                 `json:"resolution"`
	Severities      []string            `json:"severities"`
	CycleDuration   float64             `json:"cycle_duration"`
	SystoleFraction float64             `json:"systole_fraction"`
	Frames          int                 `json:"frames"`
	Cycles          int                 `json:"cycles"`
	Aggregates      []metrics.Aggregate `json:"aggregates"`
}

var csvHeader = []string{"time", "severity", "opening", "peak_velocity_cm_s", "gradient_mmhg", "eoa_cm2", "flow_l_min"}

// Save writes a run directory named valve_<unix time> and returns the run ID.
// Samples should be in frame order; severities interleave within a frame.
func (s *Store) Save(cfg *config.Config, aggs []metrics.Aggregate, samples []metrics.Sample) (string, error) {
	runID := fmt.Sprintf("valve_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Resolution:      cfg.Resolution,
		Severities:      cfg.Severities,
		CycleDuration:   cfg.CycleDuration,
		SystoleFraction: cfg.SystoleFraction,
		Frames:          cfg.Frames,
		Cycles:          cfg.Cycles,
		Aggregates:      aggs,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "metrics.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, sm := range samples {
		row := []string{
			strconv.FormatFloat(sm.T, 'f', 6, 64),
			sm.Severity,
			strconv.FormatFloat(sm.Opening, 'f', 6, 64),
			strconv.FormatFloat(sm.PeakVelocity, 'f', 6, 64),
			strconv.FormatFloat(sm.PressureGradient, 'f', 6, 64),
			strconv.FormatFloat(sm.EOA, 'f', 6, 64),
			strconv.FormatFloat(sm.CardiacOutput, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for every run directory, skipping entries that are
// missing or corrupt rather than failing the whole listing.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads the per-frame metric rows back from a run's metrics.csv.
func (s *Store) LoadSamples(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "metrics.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		opening, _ := strconv.ParseFloat(rec[2], 64)
		vel, _ := strconv.ParseFloat(rec[3], 64)
		grad, _ := strconv.ParseFloat(rec[4], 64)
		eoa, _ := strconv.ParseFloat(rec[5], 64)
		co, _ := strconv.ParseFloat(rec[6], 64)
		samples = append(samples, metrics.Sample{
			T:                t,
			Severity:         rec[1],
			Opening:          opening,
			PeakVelocity:     vel,
			PressureGradient: grad,
			EOA:              eoa,
			CardiacOutput:    co,
		})
	}
	return samples, nil
}
