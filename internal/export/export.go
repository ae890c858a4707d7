// Package export renders persisted runs into portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/georgpou/particlebox/internal/storage"
)

// Dump is the JSON shape of a full run export.
type Dump struct {
	Engine      string             `json:"engine"`
	Seed        int64              `json:"seed"`
	Count       int                `json:"count"`
	RadiusMin   float64            `json:"radius_min"`
	RadiusMax   float64            `json:"radius_max"`
	VelocityMax float64            `json:"velocity_max"`
	Frames      []int              `json:"frames"`
	Positions   [][]float64        `json:"positions"`
	Metrics     map[string]float64 `json:"metrics"`
}

// JSON writes the full run as indented JSON.
func JSON(w io.Writer, meta *storage.RunMetadata, run *storage.Run) error {
	dump := Dump{
		Engine:      meta.Engine,
		Seed:        meta.Seed,
		Count:       meta.Count,
		RadiusMin:   meta.RadiusMin,
		RadiusMax:   meta.RadiusMax,
		VelocityMax: meta.VelocityMax,
		Frames:      run.Frames,
		Positions:   run.Positions,
		Metrics:     meta.Metrics,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// CSV writes the position history with the storage column layout.
func CSV(w io.Writer, meta *storage.RunMetadata, run *storage.Run) error {
	cw := csv.NewWriter(w)
	header := []string{"frame"}
	for i := 0; i < meta.Count; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, frame := range run.Frames {
		row := make([]string, 0, 1+len(run.Positions[i]))
		row = append(row, strconv.Itoa(frame))
		for _, v := range run.Positions[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
