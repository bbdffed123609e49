package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/episim/internal/epidemic"
)

type ExportData struct {
	RunMetadata
	Times []float64 `json:"times"`
	S     []float64 `json:"s"`
	I     []float64 `json:"i"`
	R     []float64 `json:"r"`
}

func ExportJSON(w io.Writer, meta RunMetadata, traj epidemic.Trajectory) error {
	s, i, r := traj.Series()
	data := ExportData{
		RunMetadata: meta,
		Times:       traj.Times(),
		S:           s,
		I:           i,
		R:           r,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
