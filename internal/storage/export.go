package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata          `json:"run"`
	Series map[string][]float64 `json:"series"`
}

// ExportJSON writes a run's metadata and telemetry columns to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Series: series.Columns})
}
