package canvas

import (
	"math"
	"strconv"

	osm "github.com/omniscale/go-osm"
)

const fixedPointFactor = 10000000

// EncodeFixed returns the unsigned decimal token of v with seven fractional
// digits. The value is truncated toward zero, the sign is dropped.
func EncodeFixed(v float64) string {
	n := int64(v * fixedPointFactor)
	if n < 0 {
		n = -n
	}
	return strconv.FormatInt(n, 10)
}

// encodeTokens returns the fixed point tokens of all longitudes (x) and
// latitudes (y).
func encodeTokens(nodes []osm.Node) (xs, ys []string) {
	xs = make([]string, len(nodes))
	ys = make([]string, len(nodes))
	for i, nd := range nodes {
		xs[i] = EncodeFixed(nd.Long)
		ys[i] = EncodeFixed(nd.Lat)
	}
	return xs, ys
}

func encodeDirect(nodes []osm.Node) []vertex {
	vertices := make([]vertex, len(nodes))
	for i, nd := range nodes {
		vertices[i] = vertex{math.Abs(nd.Long), math.Abs(nd.Lat)}
	}
	return vertices
}
