package output

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/rwsampling/trackcanvas/canvas"
	"github.com/rwsampling/trackcanvas/extract"
)

var results = []extract.Result{
	{Index: 0, Path: "tracks/a.kml", Name: "a", Points: []canvas.Point{{X: 0, Y: 0}, {X: 980, Y: 490}, {X: 490, Y: 245}}},
	{Index: 1, Path: "tracks/b.kml", Err: errors.Wrap(canvas.ErrDegenerateTrack, "fitting tracks/b.kml")},
	{Index: 2, Path: "tracks/c.kml.gz", Name: "c", Points: []canvas.Point{{X: 0, Y: 0}, {X: 245, Y: 980}}},
}

func TestWriteText(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteText(buf, results); err != nil {
		t.Fatal(err)
	}
	expected := "3\n" +
		"[(0, 0), (980, 490), (490, 245)]\n" +
		"# tracks/b.kml: fitting tracks/b.kml: degenerate track with zero extent\n" +
		"[(0, 0), (245, 980)]\n"
	if buf.String() != expected {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteJSON(buf, results); err != nil {
		t.Fatal(err)
	}
	var tracks []jsonTrack
	if err := json.Unmarshal(buf.Bytes(), &tracks); err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}
	if tracks[0].File != "tracks/a.kml" || len(tracks[0].Points) != 3 || tracks[0].Points[1] != [2]int{980, 490} {
		t.Errorf("unexpected first track %+v", tracks[0])
	}
	if tracks[1].Error == "" || tracks[1].Points != nil {
		t.Errorf("unexpected failed track %+v", tracks[1])
	}
}

func TestWritePNG(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WritePNG(buf, results[0].Points, 1000); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1000 || b.Dy() != 1000 {
		t.Fatalf("unexpected size %v", b)
	}

	// start marker at canvas origin
	r, g, b, _ := img.At(10, 989).RGBA()
	if r>>8 != 0xd6 || g>>8 != 0x2b || b>>8 != 0x2b {
		t.Errorf("start marker missing: %x %x %x", r>>8, g>>8, b>>8)
	}
	// upper left corner is empty
	r, g, b, _ = img.At(5, 5).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("background not white: %x %x %x", r>>8, g>>8, b>>8)
	}
	// middle of the first segment, (490, 245) on the canvas
	r, g, b, _ = img.At(500, 744).RGBA()
	if r>>8 == 0xff && g>>8 == 0xff && b>>8 == 0xff {
		t.Error("track segment not drawn")
	}

	if err := WritePNG(buf, results[0].Points, 10); errors.Cause(err) != canvas.ErrInvalidMapSize {
		t.Errorf("expected ErrInvalidMapSize, got %v", err)
	}
}

func TestWritePreviews(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "preview")
	if err := WritePreviews(dir, results, 1000); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.kml.png", "c.kml.gz.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "b.kml.png")); !os.IsNotExist(err) {
		t.Errorf("preview for failed track: %v", err)
	}
}

func TestWritePreviewsDistinctContainers(t *testing.T) {
	dir := t.TempDir()
	points := []canvas.Point{{X: 0, Y: 0}, {X: 980, Y: 490}}
	tracks := []extract.Result{
		{Index: 0, Path: "tracks/a.kml", Points: points},
		{Index: 1, Path: "tracks/a.kml.gz", Points: points},
		{Index: 2, Path: "tracks/a.kmz", Points: points},
	}
	if err := WritePreviews(dir, tracks, 1000); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(tracks) {
		t.Errorf("expected %d previews, got %d", len(tracks), len(entries))
	}
}
