package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/outline"
	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/parser"
	"github.com/dgallion1/wikitree/internal/render"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitIO      = 3
	ExitConvert = 4
)

var (
	ErrUsage       = errors.New("usage error")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
	ErrParse       = errors.New("failed to parse input")
)

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := convertFile(args, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrReadInput), errors.Is(err, ErrWriteOutput):
		return ExitIO
	case errors.Is(err, convert.ErrConversionFailed), errors.Is(err, ErrParse):
		return ExitConvert
	}
	return ExitGeneral
}

func convertFile(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags, files, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	path := files[0]

	level := slog.LevelError
	if flags.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	var p parser.Parser
	switch {
	case flags.inputFormat != "":
		p, err = parser.ForFormat(flags.inputFormat, parser.Options{FallbackPdftotext: true})
	case path == "-":
		p, err = parser.ForFormat("json", parser.Options{})
	default:
		p, err = parser.ForFile(path, parser.Options{FallbackPdftotext: true})
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	name := path
	if path == "-" {
		name = "stdin"
	}
	doc, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	if flags.title != "" {
		doc.Title = flags.title
	}

	conv := convert.New(
		convert.WithLogger(log),
		convert.WithMaxDepth(flags.maxDepth),
		convert.WithRefTag(flags.refTag),
	)
	page, err := conv.Convert(doc)
	if err != nil {
		var cerr *convert.ConversionError
		if errors.As(err, &cerr) {
			fmt.Fprint(stderr, cerr.Diagnostic())
		}
		return err
	}
	log.Info("converted",
		"title", doc.Title,
		"elements", page.LastID(),
		"sections", len(page.Sections),
		"skipped", len(page.Skipped),
	)

	out, err := encode(page, doc.Title, flags)
	if err != nil {
		return err
	}
	if flags.output == "" {
		_, err = stdout.Write(out)
	} else {
		err = os.WriteFile(flags.output, out, 0o644)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

func encode(page *pagetree.Page, title string, flags *cliFlags) ([]byte, error) {
	var v any = page
	switch flags.format {
	case "html":
		var buf bytes.Buffer
		if err := render.HTML(&buf, page, title); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "outline":
		v = outline.Build(page, title)
	}

	var out []byte
	var err error
	if flags.pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", flags.format, err)
	}
	return append(out, '\n'), nil
}
