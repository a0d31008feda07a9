package output

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"

	"github.com/rwsampling/trackcanvas/canvas"
	"github.com/rwsampling/trackcanvas/extract"
)

const (
	strokeWidth = 2
	markerSize  = 6
)

var (
	background  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	trackColor  = color.RGBA{0x1f, 0x4e, 0x9c, 0xff}
	markerColor = color.RGBA{0xd6, 0x2b, 0x2b, 0xff}
)

// WritePNG renders points as a polyline on a mapSize x mapSize image. The
// canvas origin is placed half a margin from the lower left corner, the
// start of the track is marked.
func WritePNG(w io.Writer, points []canvas.Point, mapSize int) error {
	if mapSize <= canvas.Margin {
		return errors.Wrapf(canvas.ErrInvalidMapSize, "map size %d", mapSize)
	}
	img := image.NewRGBA(image.Rect(0, 0, mapSize, mapSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	toImage := func(p canvas.Point) (float32, float32) {
		return float32(p.X + canvas.Margin/2), float32(mapSize - canvas.Margin/2 - p.Y)
	}

	r := vector.NewRasterizer(mapSize, mapSize)
	r.DrawOp = draw.Over
	for i := 1; i < len(points); i++ {
		x0, y0 := toImage(points[i-1])
		x1, y1 := toImage(points[i])
		addSegment(r, x0, y0, x1, y1)
	}
	r.Draw(img, img.Bounds(), image.NewUniform(trackColor), image.Point{})

	if len(points) > 0 {
		r.Reset(mapSize, mapSize)
		r.DrawOp = draw.Over
		x, y := toImage(points[0])
		h := float32(markerSize) / 2
		r.MoveTo(x-h, y-h)
		r.LineTo(x+h, y-h)
		r.LineTo(x+h, y+h)
		r.LineTo(x-h, y+h)
		r.ClosePath()
		r.Draw(img, img.Bounds(), image.NewUniform(markerColor), image.Point{})
	}

	return png.Encode(w, img)
}

// addSegment adds the outline of a strokeWidth wide line segment.
func addSegment(r *vector.Rasterizer, x0, y0, x1, y1 float32) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*strokeWidth/2, dx/l*strokeWidth/2
	r.MoveTo(x0+nx, y0+ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x0-nx, y0-ny)
	r.ClosePath()
}

// WritePreviews writes one PNG per successful result into dir, named after
// the source file including its extension.
func WritePreviews(dir string, results []extract.Result, mapSize int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating preview directory")
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		fname := filepath.Join(dir, previewName(r.Path))
		if err := writePNGFile(fname, r.Points, mapSize); err != nil {
			return errors.Wrapf(err, "writing preview %s", fname)
		}
	}
	return nil
}

// previewName keeps the full file name, a.kml and a.kml.gz are distinct
// previews.
func previewName(path string) string {
	return filepath.Base(path) + ".png"
}

func writePNGFile(fname string, points []canvas.Point, mapSize int) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := WritePNG(f, points, mapSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
