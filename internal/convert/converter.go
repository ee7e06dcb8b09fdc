// Package convert builds a pagetree.Page from a wikiast source tree.
//
// A Converter holds only configuration. Every call to Convert builds its own
// traversal state (id sequence, attachment point, property stack), so one
// Converter may serve concurrent conversions.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/wikiast"
)

// Sentinel errors for conversion.
var (
	ErrNilDocument      = errors.New("nil source document")
	ErrConversionFailed = errors.New("conversion failed")

	// Recoverable per-node failures. The node is skipped and traversal continues.
	ErrNilNode       = errors.New("nil node")
	ErrInvalidLevel  = errors.New("invalid level")
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
)

// Defaults.
const (
	DefaultMaxDepth = 512
	DefaultRefTag   = "ref"
)

// Converter converts source trees into page graphs.
type Converter struct {
	log      *slog.Logger
	maxDepth int
	refTag   string
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for skipped-node warnings and failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxDepth bounds source tree nesting. Deeper nodes are skipped.
func WithMaxDepth(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRefTag sets the tag-extension name treated as an inline reference.
func WithRefTag(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.refTag = name
		}
	}
}

// New returns a Converter with the given options applied.
func New(opts ...Option) *Converter {
	c := &Converter{
		log:      slog.Default(),
		maxDepth: DefaultMaxDepth,
		refTag:   DefaultRefTag,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts doc using a default Converter.
func Convert(doc *wikiast.Page) (*pagetree.Page, error) {
	return New().Convert(doc)
}

// FromJSON decodes a JSON source tree and converts it.
func (c *Converter) FromJSON(data []byte) (*pagetree.Page, error) {
	doc, err := wikiast.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode source tree: %w", err)
	}
	return c.Convert(doc)
}

// Convert builds the page graph for doc. Nodes that fail individually are
// skipped and listed in Page.Skipped. Any other failure during traversal is
// fatal and returned as a *ConversionError; no partial page is returned.
func (c *Converter) Convert(doc *wikiast.Page) (page *pagetree.Page, err error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	s := newState(c)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cerr := &ConversionError{
			Snapshot: s.page.Root.String(),
			Cause:    r,
			Stack:    debug.Stack(),
		}
		c.log.Error("conversion failed", "title", doc.Title, "cause", fmt.Sprint(r), "last_id", s.page.LastID())
		page, err = nil, cerr
	}()

	s.visitList(doc.Content)
	return s.page, nil
}

// ConversionError reports a fatal failure with the partial page for
// diagnosis.
type ConversionError struct {
	// Snapshot is the textual form of the partially built root.
	Snapshot string
	// Cause is the recovered panic value.
	Cause any
	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrConversionFailed, e.Cause)
}

func (e *ConversionError) Unwrap() []error {
	errs := []error{ErrConversionFailed}
	if cause, ok := e.Cause.(error); ok {
		errs = append(errs, cause)
	}
	return errs
}

// Diagnostic returns the full report: partial tree, stack trace and cause.
func (e *ConversionError) Diagnostic() string {
	var b bytes.Buffer
	b.WriteString("=== FAILED ===\n")
	b.WriteString(e.Snapshot)
	b.WriteString("\n")
	b.Write(e.Stack)
	fmt.Fprintf(&b, "\n%v\n=== FAILED ===\n", e.Cause)
	return b.String()
}
