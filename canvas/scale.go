package canvas

import (
	"math"

	"github.com/pkg/errors"
)

// factors above this lose the integer precision of float64
const maxScaleFactor = 1 << 53

func maximum(vertices []vertex) (maxX, maxY float64) {
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		maxX = math.Max(maxX, v.x)
		maxY = math.Max(maxY, v.y)
	}
	return maxX, maxY
}

// ScaleFactor returns the integer factor that fits maxValue into
// mapSize-Margin pixels.
func ScaleFactor(maxValue float64, mapSize int) (int, error) {
	if maxValue <= 0 {
		return 0, errors.Wrapf(ErrDegenerateTrack, "max value %v", maxValue)
	}
	ratio := float64(mapSize-Margin) / maxValue
	if ratio >= maxScaleFactor {
		return 0, errors.Wrapf(ErrDegenerateTrack, "extent %v below coordinate precision", maxValue)
	}
	factor := int(ratio)
	if factor < 1 {
		return 0, errors.Wrapf(ErrCanvasTooSmall, "extent %v on %d pixels", maxValue, mapSize-Margin)
	}
	return factor, nil
}

func scale(vertices []vertex, mapSize int) ([]Point, error) {
	maxX, maxY := maximum(vertices)
	factor, err := ScaleFactor(math.Max(maxX, maxY), mapSize)
	if err != nil {
		return nil, err
	}

	f := float64(factor)
	points := make([]Point, len(vertices))
	for i, v := range vertices {
		points[i] = Point{X: int(v.x * f), Y: int(v.y * f)}
	}
	return points, nil
}
