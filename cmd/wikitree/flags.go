package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

type cliFlags struct {
	output      string
	format      string
	inputFormat string
	title       string
	pretty      bool
	refTag      string
	maxDepth    int
	verbose     bool
}

var outputFormats = map[string]bool{"json": true, "html": true, "outline": true}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("wikitree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wikitree [flags] FILE")
		fmt.Fprintln(stderr, "FILE may be - to read standard input.")
		fs.PrintDefaults()
	}

	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	fs.StringVarP(&f.format, "format", "f", "json", "output format: json, html, outline")
	fs.StringVarP(&f.inputFormat, "input-format", "i", "", "input format (default from file extension): json, md, html, txt, csv, pdf, docx")
	fs.StringVarP(&f.title, "title", "t", "", "page title (default from the input)")
	fs.BoolVarP(&f.pretty, "pretty", "p", false, "indent JSON output")
	fs.StringVar(&f.refTag, "ref-tag", "ref", "tag extension treated as an inline reference")
	fs.IntVar(&f.maxDepth, "max-depth", 512, "maximum source tree nesting")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log skipped nodes and a summary to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if !outputFormats[f.format] {
		return nil, nil, fmt.Errorf("%w: unknown output format %q", ErrUsage, f.format)
	}
	if f.maxDepth <= 0 {
		return nil, nil, fmt.Errorf("%w: --max-depth must be positive", ErrUsage)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("%w: expected exactly one input file", ErrUsage)
	}
	return f, fs.Args(), nil
}
