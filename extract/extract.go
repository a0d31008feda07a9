// Package extract fits every track file of a directory onto the canvas.
package extract

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/rwsampling/trackcanvas/canvas"
	"github.com/rwsampling/trackcanvas/kml"
	"github.com/rwsampling/trackcanvas/log"
)

var ErrNoInput = errors.New("no input files")

// Policy decides what happens to the batch when a single file fails.
type Policy string

const (
	// PolicyAbort cancels the batch on the first failing file.
	PolicyAbort Policy = "abort"
	// PolicySkip keeps failing files as results with Err set.
	PolicySkip Policy = "skip"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyAbort, PolicySkip:
		return Policy(s), nil
	}
	return "", errors.Errorf("unknown error policy %q (abort or skip)", s)
}

// ResultOK is the result label of a successfully fitted file. Failed files
// are labeled with their error class.
const ResultOK = "ok"

// Recorder receives the outcome of every processed file.
type Recorder interface {
	Track(result string, vertices int, d time.Duration)
}

type Options struct {
	Dir     string
	Pattern string
	MapSize int
	Method  canvas.Method
	OnError Policy
	// Workers limits the number of files processed in parallel, defaults
	// to the number of CPUs.
	Workers int
	Stats   Recorder
}

// Result is the canvas track of the file at Index in discovery order.
type Result struct {
	Index  int
	Path   string
	Name   string
	Tags   osm.Tags
	Points []canvas.Point
	Err    error
}

// Discover returns all files in dir matching pattern, sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoInput, "%s in %s", pattern, dir)
	}
	sort.Strings(files)
	return files, nil
}

// ExtractCoordinates reads and fits all track files of opts.Dir. The
// results are in discovery order, independent of processing order.
func ExtractCoordinates(ctx context.Context, opts Options) ([]Result, error) {
	files, err := Discover(opts.Dir, opts.Pattern)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	defer log.Step("Extracting " + filepath.Join(opts.Dir, opts.Pattern))()

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, fname := range files {
		i, fname := i, fname // per-iteration copy; go directive is 1.21
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = processFile(i, fname, opts)
			if err := results[i].Err; err != nil {
				if opts.OnError == PolicySkip {
					log.Warnf("skipping %s: %s", fname, err)
					return nil
				}
				return err
			}
			log.Debugf("%s: %d points", fname, len(results[i].Points))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func processFile(idx int, fname string, opts Options) Result {
	start := time.Now()
	r := Result{Index: idx, Path: fname}

	vertices := 0
	track, err := kml.ReadFile(fname)
	if err == nil {
		r.Name = track.Name
		r.Tags = track.Tags
		vertices = len(track.Nodes)
		r.Points, err = canvas.Fit(track.Nodes, opts.MapSize, opts.Method)
		if err != nil {
			err = errors.Wrapf(err, "fitting %s", fname)
		}
	}
	r.Err = err

	if opts.Stats != nil {
		opts.Stats.Track(resultClass(err), vertices, time.Since(start))
	}
	return r
}

// resultClass returns the metric label for err.
func resultClass(err error) string {
	if err == nil {
		return ResultOK
	}
	switch cause := errors.Cause(err); cause {
	case canvas.ErrDegenerateTrack:
		return "degenerate"
	case canvas.ErrPrefixExhausted:
		return "prefix_exhausted"
	case canvas.ErrSignBoundary:
		return "sign_boundary"
	case canvas.ErrCanvasTooSmall:
		return "canvas_too_small"
	case canvas.ErrInvalidCoordinate:
		return "invalid_coordinate"
	default:
		if _, ok := cause.(*kml.SourceFormatError); ok {
			return "source_format"
		}
	}
	return "error"
}
