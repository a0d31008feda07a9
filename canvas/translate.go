package canvas

import "math"

func minimum(vertices []vertex) (minX, minY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	for _, v := range vertices {
		minX = math.Min(minX, v.x)
		minY = math.Min(minY, v.y)
	}
	return minX, minY
}

// translateTruncated shifts vertices by the integer part of the per-axis
// minimum. The fractional part of the minimum stays in place.
func translateTruncated(vertices []vertex) {
	minX, minY := minimum(vertices)
	shift(vertices, math.Trunc(minX), math.Trunc(minY))
}

// translateExact moves the per-axis minimum to 0.
func translateExact(vertices []vertex) {
	minX, minY := minimum(vertices)
	shift(vertices, minX, minY)
}

func shift(vertices []vertex, dx, dy float64) {
	for i := range vertices {
		vertices[i].x -= dx
		vertices[i].y -= dy
	}
}
