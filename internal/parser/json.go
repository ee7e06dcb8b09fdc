package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/wikitree/internal/wikiast"
)

// JSONParser reads a source tree already in the JSON interchange form.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*wikiast.Page, error) {
	page, err := wikiast.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("parse source tree: %w", err)
	}
	if page.Title == "" {
		page.Title = titleFromFilename(filename)
	}
	return page, nil
}
