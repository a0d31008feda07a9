package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}

var DefaultLogger *log.Logger
var defaultFilter *logFilter

type Level string

const (
	LDebug = Level("debug")
	LStep  = Level("step")
	LInfo  = Level("info")
	LWarn  = Level("warn")
	LError = Level("error")
	LFatal = Level("fatal")
)

var levels = []Level{LDebug, LStep, LInfo, LWarn, LError, LFatal}

func init() {
	defaultFilter = newLogFilter(os.Stderr, LStep)
	DefaultLogger = log.New(defaultFilter, "", 0)
}

// ParseLevel returns the Level named by s.
func ParseLevel(s string) (Level, error) {
	for _, l := range levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

// logFilter drops lines tagged with a level below minLevel. Lines without
// a level tag always pass.
type logFilter struct {
	mu        sync.Mutex
	start     time.Time
	writer    io.Writer
	badLevels map[Level]struct{}
	minLevel  Level
}

func newLogFilter(w io.Writer, minLevel Level) *logFilter {
	f := &logFilter{
		start:    time.Now(),
		writer:   w,
		minLevel: minLevel,
	}
	f.init()
	return f
}

func (f *logFilter) init() {
	badLevels := make(map[Level]struct{})
	for _, level := range levels {
		if level == f.minLevel {
			break
		}
		badLevels[level] = struct{}{}
	}
	f.badLevels = badLevels
}

func (f *logFilter) Check(line []byte) bool {
	var level Level
	x := bytes.IndexByte(line, '[')
	if x >= 0 {
		y := bytes.IndexByte(line[x:], ']')
		if y >= 0 {
			level = Level(line[x+1 : x+y])
		}
	}

	f.mu.Lock()
	_, bad := f.badLevels[level]
	f.mu.Unlock()
	return !bad
}

func (f *logFilter) Write(p []byte) (n int, err error) {
	if !f.Check(p) {
		return len(p), nil
	}
	// The Go log package always guarantees that we only
	// get a single line.
	b := bytes.Buffer{}
	now := time.Now()

	d := now.Sub(f.start)
	fmt.Fprintf(&b, "[%s] %d:%02d:%02d ",
		now.Format(time.RFC3339),
		int(d.Hours()),
		int(math.Mod(d.Minutes(), 60)),
		int(math.Mod(d.Seconds(), 60)),
	)
	b.Write(p)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.writer.Write(b.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func SetMinLevel(lvl Level) {
	defaultFilter.mu.Lock()
	defaultFilter.minLevel = lvl
	defaultFilter.init()
	defaultFilter.mu.Unlock()
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	defaultFilter.mu.Lock()
	defaultFilter.writer = w
	defaultFilter.mu.Unlock()
}

func Println(v ...interface{}) {
	DefaultLogger.Println(v...)
}

func Printf(format string, v ...interface{}) {
	DefaultLogger.Printf(format, v...)
}

func Debugf(format string, v ...interface{}) {
	DefaultLogger.Printf("[debug] "+format, v...)
}

func Infof(format string, v ...interface{}) {
	DefaultLogger.Printf("[info] "+format, v...)
}

func Warnf(format string, v ...interface{}) {
	DefaultLogger.Printf("[warn] "+format, v...)
}

func Errorf(format string, v ...interface{}) {
	DefaultLogger.Printf("[error] "+format, v...)
}

func Fatal(v ...interface{}) {
	DefaultLogger.Fatal(append([]interface{}{"[fatal] "}, v...)...)
}

func Fatalf(format string, v ...interface{}) {
	DefaultLogger.Fatalf("[fatal] "+format, v...)
}

// Step logs the start of name and returns a func that logs its duration.
func Step(name string) func() {
	start := time.Now()
	Println("[step] Starting:", name)
	return func() {
		Printf("[step] Finished: %s in %s", name, time.Since(start))
	}
}
