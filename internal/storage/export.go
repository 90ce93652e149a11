package storage

import (
	"encoding/json"
	"io"
	"math"
)

type ExportData struct {
	RunMetadata
	Convergents []Row `json:"convergents"`
}

// ExportJSON writes a saved run, metadata and convergents, as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, err := s.LoadRows(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, Convergents: rows})
}

// jsonSafe drops metric values JSON cannot represent, such as the infinite
// error of a run without convergents.
func jsonSafe(meta RunMetadata) RunMetadata {
	clean := make(map[string]float64, len(meta.Metrics))
	for k, v := range meta.Metrics {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		clean[k] = v
	}
	meta.Metrics = clean
	return meta
}
