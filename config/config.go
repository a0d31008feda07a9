package config

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"runtime"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/rwsampling/trackcanvas/canvas"
	"github.com/rwsampling/trackcanvas/extract"
	"github.com/rwsampling/trackcanvas/log"
)

// Config is the content of the -config file. JSON files are valid too.
type Config struct {
	Input       string `yaml:"input"`
	Pattern     string `yaml:"pattern"`
	MapSize     int    `yaml:"mapsize"`
	Method      string `yaml:"method"`
	OnError     string `yaml:"onerror"`
	Workers     int    `yaml:"workers"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	Preview     string `yaml:"preview"`
	PushGateway string `yaml:"pushgateway"`
}

const defaultInput = "real_world_sampling/kml-files"
const defaultPattern = "*.kml"
const defaultMapSize = 1000
const defaultMethod = string(canvas.MethodDirect)
const defaultOnError = string(extract.PolicyAbort)
const defaultFormat = "text"

type Options struct {
	Input       string
	Pattern     string
	MapSize     int
	Method      string
	OnError     string
	Workers     int
	Format      string
	Output      string
	Preview     string
	PushGateway string
	ConfigFile  string
	Httpprofile string
	Quiet       bool
	LogLevel    string
}

func newExtractFlags(opts *Options) *flag.FlagSet {
	flags := flag.NewFlagSet("extract", flag.ContinueOnError)
	flags.StringVar(&opts.Input, "input", defaultInput, "directory with track files")
	flags.StringVar(&opts.Pattern, "pattern", defaultPattern, "file name pattern (.kml, .kml.gz, .kmz)")
	flags.IntVar(&opts.MapSize, "mapsize", defaultMapSize, "canvas edge length in pixels")
	flags.StringVar(&opts.Method, "method", defaultMethod, "normalization method (direct or prefix)")
	flags.StringVar(&opts.OnError, "onerror", defaultOnError, "abort or skip on invalid track files")
	flags.IntVar(&opts.Workers, "workers", runtime.NumCPU(), "number of files processed in parallel")
	flags.StringVar(&opts.Format, "format", defaultFormat, "output format (text or json)")
	flags.StringVar(&opts.Output, "output", "", "output file (default stdout)")
	flags.StringVar(&opts.Preview, "preview", "", "directory for PNG previews")
	flags.StringVar(&opts.PushGateway, "pushgateway", "", "Prometheus Pushgateway URL")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (yaml or json)")
	flags.StringVar(&opts.Httpprofile, "httpprofile", "", "bind address for pprof and metrics server")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log warnings and errors")
	flags.StringVar(&opts.LogLevel, "loglevel", "", "log level (debug, step, info, warn, error)")
	return flags
}

func loadConfig(fname string) (*Config, error) {
	b, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading config")
	}
	conf := &Config{}
	if err := yaml.UnmarshalStrict(b, conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "parsing config %s", fname)
	}
	return conf, nil
}

// updateFromConfig sets all options that were not given on the command
// line from the config file.
func (o *Options) updateFromConfig(flags *flag.FlagSet) error {
	if o.ConfigFile == "" {
		return nil
	}
	conf, err := loadConfig(o.ConfigFile)
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	setString := func(name string, dst *string, v string) {
		if !set[name] && v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if !set[name] && v != 0 {
			*dst = v
		}
	}
	setString("input", &o.Input, conf.Input)
	setString("pattern", &o.Pattern, conf.Pattern)
	setInt("mapsize", &o.MapSize, conf.MapSize)
	setString("method", &o.Method, conf.Method)
	setString("onerror", &o.OnError, conf.OnError)
	setInt("workers", &o.Workers, conf.Workers)
	setString("format", &o.Format, conf.Format)
	setString("output", &o.Output, conf.Output)
	setString("preview", &o.Preview, conf.Preview)
	setString("pushgateway", &o.PushGateway, conf.PushGateway)
	return nil
}

func (o *Options) check() []error {
	errs := []error{}
	if o.MapSize <= canvas.Margin {
		errs = append(errs, fmt.Errorf("-mapsize must be larger than %d", canvas.Margin))
	}
	if o.Pattern == "" {
		errs = append(errs, errors.New("missing -pattern"))
	}
	if _, err := canvas.ParseMethod(o.Method); err != nil {
		errs = append(errs, err)
	}
	if _, err := extract.ParsePolicy(o.OnError); err != nil {
		errs = append(errs, err)
	}
	if o.Workers < 0 {
		errs = append(errs, errors.New("-workers must not be negative"))
	}
	if o.Format != "text" && o.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown -format %q (text or json)", o.Format))
	}
	if o.LogLevel != "" {
		if _, err := log.ParseLevel(o.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ExtractOptions returns the batch options. Call only on checked options.
func (o *Options) ExtractOptions() extract.Options {
	return extract.Options{
		Dir:     o.Input,
		Pattern: o.Pattern,
		MapSize: o.MapSize,
		Method:  canvas.Method(o.Method),
		OnError: extract.Policy(o.OnError),
		Workers: o.Workers,
	}
}

// MinLevel returns the log level selected by -loglevel and -quiet.
func (o *Options) MinLevel() log.Level {
	if o.LogLevel != "" {
		lvl, _ := log.ParseLevel(o.LogLevel)
		return lvl
	}
	if o.Quiet {
		return log.LWarn
	}
	return log.LStep
}

func parseExtract(args []string) (*Options, []error) {
	opts := &Options{}
	flags := newExtractFlags(opts)
	flags.SetOutput(ioutil.Discard)
	if err := flags.Parse(args); err != nil {
		return nil, []error{err}
	}
	if flags.NArg() > 0 {
		return nil, []error{fmt.Errorf("unexpected arguments: %v", flags.Args())}
	}
	if err := opts.updateFromConfig(flags); err != nil {
		return nil, []error{err}
	}
	if errs := opts.check(); len(errs) != 0 {
		return nil, errs
	}
	return opts, nil
}

func UsageExtract() {
	fmt.Fprintf(os.Stderr, "Usage: %s extract [args]\n\n", os.Args[0])
	flags := newExtractFlags(&Options{})
	flags.SetOutput(os.Stderr)
	flags.PrintDefaults()
}

// ParseExtract parses the extract arguments and exits on invalid options.
func ParseExtract(args []string) *Options {
	opts, errs := parseExtract(args)
	if len(errs) != 0 {
		if len(errs) == 1 && errs[0] == flag.ErrHelp {
			UsageExtract()
			os.Exit(0)
		}
		reportErrors(errs)
		UsageExtract()
		os.Exit(2)
	}
	return opts
}

func reportErrors(errs []error) {
	fmt.Fprintln(os.Stderr, "errors in config/options:")
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "\t%s\n", err)
	}
}
