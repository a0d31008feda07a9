// Package kml reads track geometries from KML documents.
//
// Only the first Placemark with a LineString is read. Coordinates are
// returned as OSM nodes in document order, altitudes are dropped.
package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	osm "github.com/omniscale/go-osm"
)

// Track is the line geometry of a single Placemark.
type Track struct {
	Name  string
	Tags  osm.Tags
	Nodes []osm.Node
}

// SourceFormatError reports a KML document without a usable track
// geometry.
type SourceFormatError struct {
	Filename string
	Reason   string
}

func (e *SourceFormatError) Error() string {
	if e.Filename == "" {
		return "invalid KML: " + e.Reason
	}
	return fmt.Sprintf("invalid KML %s: %s", e.Filename, e.Reason)
}

func formatError(format string, args ...interface{}) error {
	return &SourceFormatError{Reason: fmt.Sprintf(format, args...)}
}

type placemark struct {
	name        strings.Builder
	description strings.Builder
	coordinates strings.Builder
	lineStrings int
}

// Read parses the KML document from r.
func Read(r io.Reader) (*Track, error) {
	decoder := xml.NewDecoder(r)
	// KML files in the wild often declare latin1 or windows-1252; the
	// coordinates are plain ASCII either way.
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var stack []string
	var pm *placemark

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, formatError("%s", err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			stack = append(stack, tok.Name.Local)
			switch tok.Name.Local {
			case "Placemark":
				if pm == nil {
					pm = &placemark{}
				}
			case "LineString":
				if pm != nil {
					pm.lineStrings++
				}
			}
		case xml.CharData:
			if pm == nil || len(stack) < 2 {
				continue
			}
			current, parent := stack[len(stack)-1], stack[len(stack)-2]
			switch {
			case current == "name" && parent == "Placemark":
				pm.name.Write(tok)
			case current == "description" && parent == "Placemark":
				pm.description.Write(tok)
			case current == "coordinates" && parent == "LineString" && pm.lineStrings == 1:
				pm.coordinates.Write(tok)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if tok.Name.Local != "Placemark" || pm == nil {
				continue
			}
			if pm.lineStrings == 0 {
				// point or polygon placemark, try the next one
				pm = nil
				continue
			}
			return pm.track()
		}
	}
	return nil, formatError("no Placemark with LineString geometry")
}

func (pm *placemark) track() (*Track, error) {
	nodes, err := parseCoordinates(pm.coordinates.String())
	if err != nil {
		return nil, err
	}
	t := &Track{
		Name:  strings.TrimSpace(pm.name.String()),
		Tags:  make(osm.Tags),
		Nodes: nodes,
	}
	if t.Name != "" {
		t.Tags["name"] = t.Name
	}
	if desc := strings.TrimSpace(pm.description.String()); desc != "" {
		t.Tags["description"] = desc
	}
	return t, nil
}

// parseCoordinates parses whitespace separated lon,lat[,alt] tuples.
func parseCoordinates(s string) ([]osm.Node, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, formatError("LineString without coordinates")
	}

	nodes := make([]osm.Node, len(fields))
	for i, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) != 2 && len(parts) != 3 {
			return nil, formatError("vertex %d: %q is not lon,lat[,alt]", i+1, field)
		}
		long, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || math.IsNaN(long) || math.IsInf(long, 0) {
			return nil, formatError("vertex %d: invalid longitude %q", i+1, parts[0])
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
			return nil, formatError("vertex %d: invalid latitude %q", i+1, parts[1])
		}
		nodes[i].ID = int64(i + 1)
		nodes[i].Long = long
		nodes[i].Lat = lat
	}
	return nodes, nil
}
