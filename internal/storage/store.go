// Package storage keeps one directory per run: the run metadata, the
// results CSV appended by the recorder, and the solver deck/report artifacts.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const ResultsFile = "results.csv"

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
	ID              string    `json:"id"`
	Case            string    `json:"case"`
	Timestamp       time.Time `json:"timestamp"`
	Dt              float64   `json:"dt"`
	InitialNeutrons float64   `json:"initial_neutrons"`
	KEffCeiling     float64   `json:"keff_ceiling"`
	KEffFloor       float64   `json:"keff_floor"`
	FinalPhase      string    `json:"final_phase"`
	Ticks           int       `json:"ticks"`
	FinalKEff       float64   `json:"final_keff"`
	PeakTemperature float64   `json:"peak_temperature_k"`
	TotalFissions   float64   `json:"total_fissions"`
}

// CreateRun allocates a run directory and returns its id and path.
func (s *Store) CreateRun(caseName string) (string, string, error) {
	runID := fmt.Sprintf("%s_%d", caseName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", "", err
	}
	return runID, runDir, nil
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func (s *Store) SaveMetadata(meta RunMetadata) error {
	f, err := os.Create(filepath.Join(s.RunDir(meta.ID), "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

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
	data, err := os.ReadFile(filepath.Join(s.RunDir(runID), "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Series is the per-tick results history in column form.
type Series struct {
	Times          []float64
	TotalFissions  []float64
	MaxTemps       []float64
	Lifetimes      []float64
	KEff           []float64
	KEffPlus2Sigma []float64
}

// LoadSeries parses a run's results CSV back into columns.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	f, err := os.Open(filepath.Join(s.RunDir(runID), ResultsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return &Series{}, nil
	}

	series := &Series{}
	for _, record := range records[1:] {
		if len(record) < 6 {
			continue
		}
		vals := make([]float64, 6)
		ok := true
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		series.Times = append(series.Times, vals[0])
		series.TotalFissions = append(series.TotalFissions, vals[1])
		series.MaxTemps = append(series.MaxTemps, vals[2])
		series.Lifetimes = append(series.Lifetimes, vals[3])
		series.KEff = append(series.KEff, vals[4])
		series.KEffPlus2Sigma = append(series.KEffPlus2Sigma, vals[5])
	}
	return series, nil
}
