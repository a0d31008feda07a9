package main

import (
	"context"
	"fmt"
	"io"
	golog "log"
	"os"
	"os/signal"

	"github.com/rwsampling/trackcanvas"
	"github.com/rwsampling/trackcanvas/config"
	"github.com/rwsampling/trackcanvas/extract"
	"github.com/rwsampling/trackcanvas/log"
	"github.com/rwsampling/trackcanvas/output"
	"github.com/rwsampling/trackcanvas/stats"
)

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Available commands:")
	fmt.Fprintln(os.Stderr, "\textract")
	fmt.Fprintln(os.Stderr, "\tversion")
}

func main() {
	golog.SetFlags(golog.LstdFlags | golog.Lshortfile)

	if len(os.Args) <= 1 {
		PrintCmds()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extract":
		opts := config.ParseExtract(os.Args[2:])
		if err := runExtract(opts); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Println(trackcanvas.Version)
	default:
		PrintCmds()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
}

func runExtract(opts *config.Options) error {
	log.SetMinLevel(opts.MinLevel())

	st := stats.New()
	if opts.Httpprofile != "" {
		stats.StartHttpServer(opts.Httpprofile, st)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eo := opts.ExtractOptions()
	eo.Stats = st
	results, err := extract.ExtractCoordinates(ctx, eo)
	log.Infof("%s", st.Summary())
	if opts.PushGateway != "" {
		if perr := st.Push(opts.PushGateway, "trackcanvas"); perr != nil {
			log.Warnf("%s", perr)
		}
	}
	if err != nil {
		return err
	}

	if opts.Output == "" {
		err = writeResults(os.Stdout, opts.Format, results)
	} else {
		err = writeResultsFile(opts.Output, opts.Format, results)
	}
	if err != nil {
		return err
	}

	if opts.Preview != "" {
		step := log.Step("Writing previews to " + opts.Preview)
		if err := output.WritePreviews(opts.Preview, results, opts.MapSize); err != nil {
			return err
		}
		step()
	}
	return nil
}

func writeResults(w io.Writer, format string, results []extract.Result) error {
	if format == "json" {
		return output.WriteJSON(w, results)
	}
	return output.WriteText(w, results)
}

func writeResultsFile(fname, format string, results []extract.Result) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := writeResults(f, format, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
