package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/wikitree/internal/wikiast"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*wikiast.Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &wikiast.Page{Title: titleFromFilename(filename)}
	if title := findTitle(doc); title != "" {
		page.Title = title
	}

	var b sectionBuilder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				b.add(wikiast.Plain(n.Data))
			}
			return
		case html.CommentNode:
			b.add(&wikiast.Silent{Of: wikiast.KindXMLComment})
			return
		case html.ElementNode:
			if level := headingLevel(n.Data); level > 0 {
				b.heading(level, htmlInline(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "div", "section", "article", "main", "body", "html":
			default:
				b.add(htmlElement(n)...)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	page.Content = b.nodes()
	return page, nil
}

// htmlKinds maps elements to span kinds.
var htmlKinds = map[string]wikiast.Kind{
	"p":          wikiast.KindParagraph,
	"b":          wikiast.KindBold,
	"strong":     wikiast.KindBold,
	"i":          wikiast.KindItalics,
	"em":         wikiast.KindItalics,
	"ul":         wikiast.KindItemization,
	"ol":         wikiast.KindEnumeration,
	"dl":         wikiast.KindDefinitionList,
	"dt":         wikiast.KindDefinitionTerm,
	"dd":         wikiast.KindDefinitionDef,
	"table":      wikiast.KindTable,
	"caption":    wikiast.KindTableCaption,
	"tr":         wikiast.KindTableRow,
	"th":         wikiast.KindTableHeader,
	"td":         wikiast.KindTableCell,
	"pre":        wikiast.KindXMLElement,
	"code":       wikiast.KindXMLElement,
	"blockquote": wikiast.KindXMLElement,
	"hr":         wikiast.KindHorizontalRule,
}

// htmlElement converts an element outside of heading handling.
func htmlElement(n *html.Node) []wikiast.Node {
	switch n.Data {
	case "br":
		return []wikiast.Node{wikiast.Plain("\n")}
	case "a":
		return []wikiast.Node{mdLink(attr(n, "href"), htmlInline(n))}
	case "img":
		var title []wikiast.Node
		if alt := attr(n, "alt"); alt != "" {
			title = []wikiast.Node{wikiast.Plain(alt)}
		}
		return []wikiast.Node{&wikiast.ImageLink{Target: attr(n, "src"), Title: title}}
	case "li":
		kind := wikiast.KindItemizationItem
		if n.Parent != nil && n.Parent.Type == html.ElementNode && n.Parent.Data == "ol" {
			kind = wikiast.KindEnumerationItem
		}
		return []wikiast.Node{wikiast.Wrap(kind, htmlInline(n)...)}
	case "script", "style":
		return nil
	}
	if level := headingLevel(n.Data); level > 0 {
		return []wikiast.Node{&wikiast.Heading{Level: level, Content: htmlInline(n)}}
	}
	if kind, ok := htmlKinds[n.Data]; ok {
		return []wikiast.Node{wikiast.Wrap(kind, htmlInline(n)...)}
	}
	return htmlInline(n)
}

// htmlInline converts the children of n.
func htmlInline(n *html.Node) []wikiast.Node {
	var out []wikiast.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			out = append(out, wikiast.Plain(c.Data))
		case html.CommentNode:
			out = append(out, &wikiast.Silent{Of: wikiast.KindXMLComment})
		case html.ElementNode:
			out = append(out, htmlElement(c)...)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
