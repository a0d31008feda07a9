// Package canvas fits geodetic tracks onto a square pixel canvas.
//
// A track passes four stages: fixed point encoding, normalization of the
// shared magnitude, translation to the origin and uniform integer scaling.
// How the first three stages run is selected with a Method.
package canvas

import (
	"math"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"
)

// Margin is the number of pixels kept free on the larger axis.
const Margin = 20

var (
	ErrDegenerateTrack   = errors.New("degenerate track with zero extent")
	ErrPrefixExhausted   = errors.New("coordinate token consumed by common prefix")
	ErrSignBoundary      = errors.New("track crosses the equator or the prime meridian")
	ErrInvalidMapSize    = errors.New("map size must be larger than the margin")
	ErrCanvasTooSmall    = errors.New("canvas too small for track extent")
	ErrInvalidCoordinate = errors.New("coordinate not representable as fixed point value")
)

type Method string

const (
	// MethodDirect subtracts the exact per-axis minimum from the full
	// precision coordinates.
	MethodDirect Method = "direct"
	// MethodPrefix strips the digits shared by all fixed point tokens of an
	// axis and truncates the minimum before subtracting it.
	MethodPrefix Method = "prefix"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodDirect, MethodPrefix:
		return Method(s), nil
	}
	return "", errors.Errorf("unknown method %q (direct or prefix)", s)
}

// Point is a pixel coordinate on the canvas.
type Point struct {
	X int
	Y int
}

// vertex is an intermediate (x, y) pair, x from the longitude and y from
// the latitude.
type vertex struct {
	x, y float64
}

// Fit converts the ordered track nodes into canvas points. The result has
// the same length and order as nodes, every coordinate lies within
// [0, mapSize-Margin].
func Fit(nodes []osm.Node, mapSize int, method Method) ([]Point, error) {
	if mapSize <= Margin {
		return nil, errors.Wrapf(ErrInvalidMapSize, "map size %d", mapSize)
	}
	if err := checkTrack(nodes); err != nil {
		return nil, err
	}

	var vertices []vertex
	switch method {
	case MethodDirect, "":
		vertices = encodeDirect(nodes)
		translateExact(vertices)
	case MethodPrefix:
		var err error
		vertices, err = normalizePrefix(nodes)
		if err != nil {
			return nil, err
		}
		translateTruncated(vertices)
	default:
		return nil, errors.Errorf("unknown method %q", method)
	}

	return scale(vertices, mapSize)
}

// Bounds returns the largest x and y of points.
func Bounds(points []Point) (maxX, maxY int) {
	for _, p := range points {
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return maxX, maxY
}

// checkTrack rejects tracks without extent and tracks that leave the
// hemisphere quadrant of their first non-zero coordinates. Signs are
// dropped during encoding, so such a track would be mirrored.
func checkTrack(nodes []osm.Node) error {
	if len(nodes) == 0 {
		return errors.Wrap(ErrDegenerateTrack, "no vertices")
	}
	distinct := false
	var latSign, longSign int
	for i, nd := range nodes {
		if !fixedPointRange(nd.Long) {
			return errors.Wrapf(ErrInvalidCoordinate, "longitude %v of vertex %d", nd.Long, i+1)
		}
		if !fixedPointRange(nd.Lat) {
			return errors.Wrapf(ErrInvalidCoordinate, "latitude %v of vertex %d", nd.Lat, i+1)
		}
		if nd.Lat != nodes[0].Lat || nd.Long != nodes[0].Long {
			distinct = true
		}
		if !sameSign(&latSign, nd.Lat) {
			return errors.Wrapf(ErrSignBoundary, "latitude %v of vertex %d", nd.Lat, i+1)
		}
		if !sameSign(&longSign, nd.Long) {
			return errors.Wrapf(ErrSignBoundary, "longitude %v of vertex %d", nd.Long, i+1)
		}
	}
	if !distinct {
		return errors.Wrapf(ErrDegenerateTrack, "%d coincident vertices", len(nodes))
	}
	return nil
}

// fixedPointRange reports whether v encodes without int64 overflow. NaN
// fails the comparison.
func fixedPointRange(v float64) bool {
	return math.Abs(v)*fixedPointFactor < math.MaxInt64
}

func sameSign(sign *int, v float64) bool {
	s := 0
	if v > 0 {
		s = 1
	} else if v < 0 {
		s = -1
	}
	if s == 0 {
		return true
	}
	if *sign == 0 {
		*sign = s
		return true
	}
	return *sign == s
}
