package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/wikitree/internal/wikiast"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading styles open sections; bold and
// italic runs become spans.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*wikiast.Page, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "wikitree-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b sectionBuilder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		content := docxRuns(para)
		if len(content) == 0 {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			b.heading(level, content)
			continue
		}
		b.add(wikiast.Wrap(wikiast.KindParagraph, content...))
	}

	return &wikiast.Page{Title: titleFromFilename(filename), Content: b.nodes()}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

// docxRuns converts a paragraph's runs, wrapping formatted runs in spans.
func docxRuns(para *docx.Paragraph) []wikiast.Node {
	var out []wikiast.Node
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var buf strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
		if buf.Len() == 0 {
			continue
		}

		var n wikiast.Node = wikiast.Plain(buf.String())
		if props := run.RunProperties; props != nil {
			if props.Italic != nil {
				n = wikiast.Wrap(wikiast.KindItalics, n)
			}
			if props.Bold != nil {
				n = wikiast.Wrap(wikiast.KindBold, n)
			}
		}
		out = append(out, n)
	}
	return out
}
