// Javelin CLI - scans class files and jars and interns every descriptor they
// carry into one symbol table
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/config"
	"github.com/chazu/javelin/descriptor"
	"github.com/chazu/javelin/report"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	configPath := flag.String("config", "", "Path to javelin.toml (default: search upward from the working directory)")
	verbose := flag.Bool("v", false, "Verbose logging")
	workers := flag.Int("workers", 0, "Number of concurrent parsers (overrides config)")
	format := flag.String("format", "", "Report format: text or cbor (overrides config)")
	output := flag.String("o", "", "Write the report to a file instead of stdout")
	strong := flag.Bool("strong", false, "Intern class file constants in the strong tier")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: javelin [options] paths...\n\n")
		fmt.Fprintf(os.Stderr, "Parses .class files, directories and jars, interning every descriptor.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  javelin ./build/classes        # Scan a class directory\n")
		fmt.Fprintf(os.Stderr, "  javelin -workers 16 lib/*.jar  # Scan jars with 16 parsers\n")
		fmt.Fprintf(os.Stderr, "  javelin -format cbor -o r.cbor app.jar\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Scan.Workers = *workers
	}
	if *format != "" {
		cfg.Report.Format = *format
	}
	if *strong {
		cfg.Scan.Strong = true
	}
	if *verbose {
		verbosity := 2
		cfg.Log.Verbosity = &verbosity
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	commonlog.Configure(cfg.LogVerbosity(), cfg.LogFile())

	r, err := run(context.Background(), cfg, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := emit(*output, r, cfg.Report.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	if !r.OK() {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.FindAndLoad(wd)
}

// run scans paths against a fresh table and builds the report.
func run(ctx context.Context, cfg *config.Config, paths []string) (*report.Report, error) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	scanner := classfile.NewScanner(&classfile.Parser{Table: tbl, Strong: cfg.Scan.Strong})
	scanner.Workers = cfg.Scan.Workers

	results, err := scanner.Scan(ctx, paths)
	if err != nil {
		return nil, err
	}

	verified := true
	if cfg.ShouldVerify() {
		verified = tbl.Symbols.Verify()
	}
	return report.Build(results, tbl.Symbols.Stats(), verified, cfg.Report.Top), nil
}

// emit writes the report to path, or to stdout when path is empty.
func emit(path string, r *report.Report, format string) error {
	if path == "" {
		return writeReport(os.Stdout, r, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeReport(f, r, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeReport(w io.Writer, r *report.Report, format string) error {
	if format == config.FormatCBOR {
		data, err := report.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return r.WriteText(w)
}
