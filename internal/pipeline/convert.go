package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/wikiast"
)

var ErrConvertTimeout = errors.New("conversion timed out")

// Convert runs conv on doc in its own goroutine and gives up when ctx is
// done. An abandoned conversion runs to completion in the background and its
// result is dropped.
func Convert(ctx context.Context, conv *convert.Converter, doc *wikiast.Page) (*pagetree.Page, error) {
	type result struct {
		page *pagetree.Page
		err  error
	}
	done := make(chan result, 1)
	go func() {
		page, err := conv.Convert(doc)
		done <- result{page, err}
	}()

	select {
	case r := <-done:
		return r.page, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrConvertTimeout, ctx.Err())
	}
}
