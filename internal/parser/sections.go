package parser

import "github.com/dgallion1/wikitree/internal/wikiast"

// sectionBuilder nests content under headings. A heading opens a section
// that collects everything up to the next heading of the same or a
// shallower level.
type sectionBuilder struct {
	root  []wikiast.Node
	stack []*wikiast.Section
}

// heading opens a new section at level.
func (b *sectionBuilder) heading(level int, title []wikiast.Node) {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].Level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	sec := &wikiast.Section{Level: level, Title: title, Body: []wikiast.Node{}}
	b.add(sec)
	b.stack = append(b.stack, sec)
}

// add appends nodes to the innermost open section, or to the top level.
func (b *sectionBuilder) add(nodes ...wikiast.Node) {
	if len(nodes) == 0 {
		return
	}
	if len(b.stack) == 0 {
		b.root = append(b.root, nodes...)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Body = append(top.Body, nodes...)
}

func (b *sectionBuilder) nodes() []wikiast.Node {
	return b.root
}
