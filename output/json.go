package output

import (
	"encoding/json"
	"io"

	"github.com/rwsampling/trackcanvas/extract"
)

type jsonTrack struct {
	File   string   `json:"file"`
	Name   string   `json:"name,omitempty"`
	Points [][2]int `json:"points,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// WriteJSON writes all results as a JSON array.
func WriteJSON(w io.Writer, results []extract.Result) error {
	tracks := make([]jsonTrack, len(results))
	for i, r := range results {
		tracks[i] = jsonTrack{File: r.Path, Name: r.Name}
		if r.Err != nil {
			tracks[i].Error = r.Err.Error()
			continue
		}
		tracks[i].Points = make([][2]int, len(r.Points))
		for j, p := range r.Points {
			tracks[i].Points[j] = [2]int{p.X, p.Y}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tracks)
}
