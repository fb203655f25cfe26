package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Series map[string]Samples `json:"series"`
}

// ExportJSON writes a run and its series as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, series map[string][]float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	out := make(map[string]Samples, len(series))
	for k, v := range series {
		out[k] = v
	}
	return encoder.Encode(ExportData{RunMetadata: meta, Series: out})
}
