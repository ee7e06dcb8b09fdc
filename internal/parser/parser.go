// Package parser turns raw documents into wikiast source trees.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/wikitree/internal/wikiast"
)

// Parser converts raw document bytes into a source tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*wikiast.Page, error)
}

// Options tune the parsers returned by ForFile.
type Options struct {
	// FallbackPdftotext shells out to pdftotext when the Go PDF reader fails.
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".json":     true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// formats maps short format names, as used by the HTTP API, to extensions.
var formats = map[string]string{
	"json":     ".json",
	"txt":      ".txt",
	"text":     ".txt",
	"md":       ".md",
	"markdown": ".md",
	"csv":      ".csv",
	"html":     ".html",
	"pdf":      ".pdf",
	"docx":     ".docx",
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ForFormat returns the parser for a short format name such as "md".
// An empty name selects the JSON source-tree parser.
func ForFormat(format string, opts Options) (Parser, error) {
	if format == "" {
		format = "json"
	}
	ext, ok := formats[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return ForFile("document"+ext, opts)
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips the directory and extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
