// Package render exports converted pages as HTML.
package render

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/wikitree/internal/pagetree"
)

// inlineTags maps text properties to the element they render as. Properties
// not listed here do not change the markup.
var inlineTags = map[string]atom.Atom{
	"bold":          atom.B,
	"italics":       atom.I,
	"xml":           atom.Code,
	"xmlOpen":       atom.Code,
	"xmlClose":      atom.Code,
	"xmlEmpty":      atom.Code,
	"tempParameter": atom.Var,
	"term":          atom.Dfn,
}

// HTML writes p as a standalone HTML document. Inline references become
// numbered footnotes listed after the body.
func HTML(w io.Writer, p *pagetree.Page, title string) error {
	r := &renderer{page: p, notes: make(map[*pagetree.Element]int)}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	t := element(atom.Title)
	t.AppendChild(textNode(title))
	head.AppendChild(t)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	if title != "" {
		h := element(atom.H1)
		h.AppendChild(textNode(title))
		body.AppendChild(h)
	}

	if target, ok := p.RedirectTarget(); ok {
		para := element(atom.P, html.Attribute{Key: "class", Val: "redirect"})
		para.AppendChild(textNode("Redirect to "))
		a := element(atom.A, html.Attribute{Key: "href", Val: pageHref(target)})
		a.AppendChild(textNode(target))
		para.AppendChild(a)
		body.AppendChild(para)
	}

	article := element(atom.Article)
	r.children(article, p.Main.Children)
	body.AppendChild(article)

	// Notes may cite further notes, so the list grows while it is rendered.
	if len(r.order) > 0 {
		list := element(atom.Ol, html.Attribute{Key: "class", Val: "references"})
		for i := 0; i < len(r.order); i++ {
			li := element(atom.Li, html.Attribute{Key: "id", Val: noteID(i + 1)})
			r.children(li, r.order[i].Children)
			list.AppendChild(li)
		}
		body.AppendChild(list)
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

type renderer struct {
	page  *pagetree.Page
	notes map[*pagetree.Element]int
	order []*pagetree.Element
}

func (r *renderer) children(parent *html.Node, elems []*pagetree.Element) {
	for _, e := range elems {
		r.element(parent, e)
	}
}

func (r *renderer) element(parent *html.Node, e *pagetree.Element) {
	switch e.Kind {
	case pagetree.KindText:
		parent.AppendChild(styledText(e.Text, e.Properties))
	case pagetree.KindPointer:
		if e.Ref != nil && e.Ref.Parent == r.page.Refs {
			parent.AppendChild(r.noteMark(e.Ref))
		}
	case pagetree.KindInternalLink, pagetree.KindExternalLink:
		href := e.Target
		class := "external"
		if e.Kind == pagetree.KindInternalLink {
			href = pageHref(e.Target)
			class = "internal"
		}
		a := element(atom.A, html.Attribute{Key: "href", Val: href}, html.Attribute{Key: "class", Val: class})
		if len(e.Children) == 0 && e.DefaultText != nil {
			r.element(a, e.DefaultText)
		} else {
			r.children(a, e.Children)
		}
		parent.AppendChild(a)
	case pagetree.KindHeading:
		h := element(headingAtom(e.Level))
		r.children(h, e.Children)
		parent.AppendChild(h)
	case pagetree.KindSection:
		sec := element(atom.Section, html.Attribute{Key: "id", Val: "s" + strconv.Itoa(e.ID)})
		h := element(headingAtom(e.Level))
		if e.Title != nil {
			r.children(h, e.Title.Children)
		}
		sec.AppendChild(h)
		if e.Body != nil {
			r.children(sec, e.Body.Children)
		}
		parent.AppendChild(sec)
	case pagetree.KindImage:
		src := e.LinkURL
		if src == "" {
			src = e.Target
		}
		fig := element(atom.Figure)
		var caption string
		if e.Title != nil && e.Title.Ref != nil {
			caption = e.Title.Ref.AllText()
		}
		fig.AppendChild(element(atom.Img, html.Attribute{Key: "src", Val: src}, html.Attribute{Key: "alt", Val: caption}))
		if caption != "" {
			fc := element(atom.Figcaption)
			r.children(fc, e.Title.Ref.Children)
			fig.AppendChild(fc)
		}
		parent.AppendChild(fig)
	case pagetree.KindTemplate, pagetree.KindTemplateArg, pagetree.KindRedirection:
		// Not part of the readable body.
	default:
		r.children(parent, e.Children)
	}
}

// noteMark returns the superscript footnote link for ref, numbering it on
// first use.
func (r *renderer) noteMark(ref *pagetree.Element) *html.Node {
	n, ok := r.notes[ref]
	if !ok {
		r.order = append(r.order, ref)
		n = len(r.order)
		r.notes[ref] = n
	}
	sup := element(atom.Sup, html.Attribute{Key: "class", Val: "reference"})
	a := element(atom.A, html.Attribute{Key: "href", Val: "#" + noteID(n)})
	a.AppendChild(textNode("[" + strconv.Itoa(n) + "]"))
	sup.AppendChild(a)
	return sup
}

// styledText wraps text in one element per inline property, outermost
// property first.
func styledText(text string, props []string) *html.Node {
	var outer, inner *html.Node
	for _, prop := range props {
		name, _, _ := pagetree.ParseProperty(prop)
		tag, ok := inlineTags[name]
		if !ok {
			continue
		}
		n := element(tag)
		if inner == nil {
			outer = n
		} else {
			inner.AppendChild(n)
		}
		inner = n
	}
	if inner == nil {
		return textNode(text)
	}
	inner.AppendChild(textNode(text))
	return outer
}

func headingAtom(level int) atom.Atom {
	switch {
	case level <= 1:
		return atom.H1
	case level == 2:
		return atom.H2
	case level == 3:
		return atom.H3
	case level == 4:
		return atom.H4
	case level == 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func pageHref(title string) string {
	return "./" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
}

func noteID(n int) string {
	return "ref-" + strconv.Itoa(n)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
