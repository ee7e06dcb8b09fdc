// Package outline derives a section tree and sized text chunks from a
// converted page.
package outline

import (
	"strings"

	"github.com/dgallion1/wikitree/internal/pagetree"
)

// Node is one section of the outline. The root node stands for the whole
// page and has level 0.
type Node struct {
	Title     string  `json:"title"`
	Level     int     `json:"level"`
	SectionID int     `json:"section_id,omitempty"`
	Text      string  `json:"text,omitempty"`
	Children  []*Node `json:"children,omitempty"`
}

// Build returns the section tree of p. Each node's Text is the readable text
// of its body, with inline references read in place and nested sections
// left to the child nodes.
func Build(p *pagetree.Page, title string) *Node {
	root := &Node{Title: title}
	root.Text = collect(p, p.Main.Children, root)
	return root
}

func collect(p *pagetree.Page, elems []*pagetree.Element, into *Node) string {
	var b strings.Builder
	for _, e := range elems {
		if e.Kind == pagetree.KindSection {
			child := &Node{
				Title:     strings.TrimSpace(e.Title.AllText()),
				Level:     e.Level,
				SectionID: e.ID,
			}
			if e.Body != nil {
				child.Text = collect(p, e.Body.Children, child)
			}
			into.Children = append(into.Children, child)
			continue
		}
		for _, run := range p.Runs(e) {
			b.WriteString(run.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// Walk calls fn for n and every descendant in document order with the titles
// of its ancestors.
func (n *Node) Walk(fn func(node *Node, breadcrumb []string)) {
	n.walk(nil, fn)
}

func (n *Node) walk(parents []string, fn func(*Node, []string)) {
	fn(n, parents)
	bc := parents
	if n.Title != "" {
		bc = append(append([]string{}, parents...), n.Title)
	}
	for _, c := range n.Children {
		c.walk(bc, fn)
	}
}

// Count returns the number of sections under n.
func (n *Node) Count() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}
