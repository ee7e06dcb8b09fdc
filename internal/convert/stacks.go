package convert

import (
	"fmt"

	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/wikiast"
)

// state is the traversal state of one conversion.
type state struct {
	conv *Converter
	page *pagetree.Page

	// cur is the attachment point: the context receiving new children.
	cur *pagetree.Element
	// props is the active-property stack.
	props []string
	// seq numbers properties so overlapping identical spans stay distinct.
	seq int

	depth int
}

func newState(c *Converter) *state {
	page := pagetree.NewPage()
	return &state{
		conv: c,
		page: page,
		cur:  page.Main,
		seq:  1,
	}
}

// enterContext appends ctx at the attachment point, then traverses nodes with
// ctx as the attachment point.
func (s *state) enterContext(ctx *pagetree.Element, nodes []wikiast.Node) {
	s.page.Append(s.cur, ctx)
	s.enterNewContext(ctx, nodes)
}

// enterNewContext traverses nodes with ctx as the attachment point without
// attaching ctx anywhere. The caller attaches it.
func (s *state) enterNewContext(ctx *pagetree.Element, nodes []wikiast.Node) {
	prev := s.cur
	s.cur = ctx
	defer func() { s.cur = prev }()
	s.visitList(nodes)
}

// withProperty runs fn with a numbered property pushed.
func (s *state) withProperty(name string, fn func()) {
	prop := fmt.Sprintf("%s(%d)", name, s.seq)
	s.seq++
	s.withBareProperty(prop, fn)
}

// withBareProperty runs fn with prop pushed as is.
func (s *state) withBareProperty(prop string, fn func()) {
	s.props = append(s.props, prop)
	defer func() { s.props = s.props[:len(s.props)-1] }()
	fn()
}

// emit appends a text element carrying the active properties.
func (s *state) emit(text string) {
	s.page.Append(s.cur, s.page.NewText(text, s.props, s.cur))
}

// refContext returns a context owned by the page's refs container, or a
// scratch context when within is itself discarding.
func (s *state) refContext(label string, within *pagetree.Element) *pagetree.Element {
	if within.Discarding() {
		return s.page.NewScratch()
	}
	return s.page.NewContext(label, s.page.Refs)
}
