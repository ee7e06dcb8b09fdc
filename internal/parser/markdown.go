package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/wikitree/internal/wikiast"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*wikiast.Page, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src := []byte(CleanWikitext(string(raw)))

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var b sectionBuilder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.heading(h.Level, mdInline(h, src))
			continue
		}
		b.add(mdBlock(n, src)...)
	}

	return &wikiast.Page{Title: titleFromFilename(filename), Content: b.nodes()}, nil
}

// mdBlock converts a block node below the heading level.
func mdBlock(n ast.Node, src []byte) []wikiast.Node {
	switch n := n.(type) {
	case *ast.Paragraph:
		return []wikiast.Node{wikiast.Wrap(wikiast.KindParagraph, mdInline(n, src)...)}
	case *ast.TextBlock:
		return mdInline(n, src)
	case *ast.Heading:
		// Nested headings (inside quotes or lists) stay inline.
		return []wikiast.Node{&wikiast.Heading{Level: n.Level, Content: mdInline(n, src)}}
	case *ast.List:
		kind, item := wikiast.KindItemization, wikiast.KindItemizationItem
		if n.IsOrdered() {
			kind, item = wikiast.KindEnumeration, wikiast.KindEnumerationItem
		}
		var items []wikiast.Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			items = append(items, wikiast.Wrap(item, mdChildren(c, src)...))
		}
		return []wikiast.Node{wikiast.Wrap(kind, items...)}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return []wikiast.Node{wikiast.Wrap(wikiast.KindXMLElement, wikiast.Plain(mdLines(n, src)))}
	case *ast.HTMLBlock:
		return []wikiast.Node{wikiast.Plain(mdLines(n, src))}
	case *ast.ThematicBreak:
		return []wikiast.Node{wikiast.Wrap(wikiast.KindHorizontalRule)}
	default:
		return mdChildren(n, src)
	}
}

func mdChildren(n ast.Node, src []byte) []wikiast.Node {
	var out []wikiast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, mdBlock(c, src)...)
	}
	return out
}

// mdInline converts the inline children of n.
func mdInline(n ast.Node, src []byte) []wikiast.Node {
	var out []wikiast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			out = append(out, wikiast.Plain(string(c.Segment.Value(src))))
			if c.HardLineBreak() || c.SoftLineBreak() {
				out = append(out, wikiast.Plain("\n"))
			}
		case *ast.String:
			out = append(out, wikiast.Plain(string(c.Value)))
		case *ast.CodeSpan:
			out = append(out, wikiast.Plain(mdText(c, src)))
		case *ast.Emphasis:
			kind := wikiast.KindItalics
			if c.Level >= 2 {
				kind = wikiast.KindBold
			}
			out = append(out, wikiast.Wrap(kind, mdInline(c, src)...))
		case *ast.Link:
			out = append(out, mdLink(string(c.Destination), mdInline(c, src)))
		case *ast.AutoLink:
			out = append(out, splitURL(string(c.URL(src))))
		case *ast.Image:
			out = append(out, &wikiast.ImageLink{
				Target: string(c.Destination),
				Title:  mdInline(c, src),
			})
		case *ast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				buf.Write(seg.Value(src))
			}
			out = append(out, wikiast.Plain(buf.String()))
		default:
			out = append(out, mdInline(c, src)...)
		}
	}
	return out
}

// mdLink builds an external link for absolute destinations and an internal
// link otherwise.
func mdLink(dest string, title []wikiast.Node) wikiast.Node {
	if len(title) == 0 {
		title = nil
	}
	if isExternal(dest) {
		return &wikiast.ExternalLink{Target: dest, Title: title}
	}
	return &wikiast.InternalLink{Target: dest, Title: title}
}

func isExternal(dest string) bool {
	return strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:")
}

// splitURL splits "https://host/path" into protocol and path.
func splitURL(u string) *wikiast.URL {
	proto, path, ok := strings.Cut(u, ":")
	if !ok {
		return &wikiast.URL{Path: u}
	}
	return &wikiast.URL{Protocol: proto, Path: path}
}

func mdLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// mdText collects the raw text under n.
func mdText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			continue
		}
		buf.WriteString(mdText(c, src))
	}
	return buf.String()
}
