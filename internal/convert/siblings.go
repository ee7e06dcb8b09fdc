package convert

import (
	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/wikiast"
)

// visitList dispatches an ordered sibling list.
//
// Entity references in a sibling list arrive in sets of four around a split
// inline reference tag: "&lt;" ref "&gt;" body "&lt;" /ref "&gt;". Each one
// advances the phase:
//
//	1: tag name text goes to scratch
//	2: body goes to a refs-owned context, pointed to from here
//	3: closing tag text goes to scratch
//	0: back to the original attachment point
func (s *state) visitList(nodes []wikiast.Node) {
	stored := s.cur
	defer func() { s.cur = stored }()

	phase := 0
	for _, child := range nodes {
		if ref, ok := child.(*wikiast.XMLEntityRef); ok && ref != nil {
			phase = (phase + 1) % 4
			switch phase {
			case 1, 3:
				s.cur = s.page.NewScratch()
			case 2:
				ctx := s.refContext(pagetree.LabelRefPrefix+ref.Name, stored)
				s.page.Append(stored, s.page.NewPointer(ctx, stored))
				s.page.Append(s.page.Refs, ctx)
				s.cur = ctx
			case 0:
				s.cur = stored
			}
		}
		if err := s.dispatch(child); err != nil {
			s.skip(child, err)
		}
	}

	// Unterminated cycle.
	if phase != 0 {
		s.emit("\n")
	}
}

// skip records a node that could not be converted.
func (s *state) skip(n wikiast.Node, err error) {
	kind := "nil"
	if n != nil {
		kind = string(n.Kind())
	}
	s.conv.log.Warn("skipping node", "kind", kind, "error", err)
	s.page.Skipped = append(s.page.Skipped, pagetree.Diagnostic{NodeKind: kind, Error: err.Error()})
}
