package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Names []string    `json:"names"`
	Draws [][]float64 `json:"draws"`
}

// ExportJSON writes a run with all of its draws as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	names, draws, err := s.LoadDraws(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Names: names, Draws: draws})
}
