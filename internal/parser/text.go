package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/wikitree/internal/wikiast"
)

// TextParser handles plain text files. Blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*wikiast.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := CleanWikitext(scanner.Text())
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	page := &wikiast.Page{Title: titleFromFilename(filename)}
	for _, para := range paragraphs {
		page.Content = append(page.Content, wikiast.Wrap(wikiast.KindParagraph, wikiast.Plain(para)))
	}
	return page, nil
}
