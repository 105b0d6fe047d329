// Package storage persists Monte Carlo sampling runs on disk, one directory
// per run holding metadata.json and draws.csv.
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
	"time"

	"github.com/google/uuid"
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

// Observable summarizes one sampled quantity.
type Observable struct {
	Name    string  `json:"name"`
	Nominal float64 `json:"nominal"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
}

type RunMetadata struct {
	ID          string       `json:"id"`
	Model       string       `json:"model"`
	Timestamp   time.Time    `json:"timestamp"`
	Seed        uint64       `json:"seed"`
	Samples     int          `json:"samples"`
	Step        float64      `json:"step"`
	Observer    [3]float64   `json:"observer"`
	L           float64      `json:"l"`
	B           float64      `json:"b"`
	Observables []Observable `json:"observables"`
}

func (m *RunMetadata) Names() []string {
	names := make([]string, len(m.Observables))
	for i, o := range m.Observables {
		names[i] = o.Name
	}
	return names
}

// Save writes a new run and returns its ID. ID and Timestamp are assigned
// here. Every draw must have one value per observable.
func (s *Store) Save(meta RunMetadata, draws [][]float64) (string, error) {
	for i, d := range draws {
		if len(d) != len(meta.Observables) {
			return "", fmt.Errorf("storage: draw %d has %d values, want %d", i, len(d), len(meta.Observables))
		}
	}

	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString())
	meta.Timestamp = time.Now()
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeDraws(filepath.Join(runDir, "draws.csv"), meta.Names(), draws); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDraws(path string, names []string, draws [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"sample"}, names...)); err != nil {
		f.Close()
		return err
	}
	for i, d := range draws {
		row := make([]string, 0, len(d)+1)
		row = append(row, strconv.Itoa(i))
		for _, v := range d {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns all readable runs, newest first.
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
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
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

// LoadDraws returns the observable names and per-sample values of a run.
func (s *Store) LoadDraws(runID string) ([]string, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "draws.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("storage: %s: empty draws file", runID)
	}

	names := records[0][1:]
	draws := make([][]float64, 0, len(records)-1)
	for line, record := range records[1:] {
		row := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s line %d: %w", runID, line+2, err)
			}
			row[j] = v
		}
		draws = append(draws, row)
	}
	return names, draws, nil
}
