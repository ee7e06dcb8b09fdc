package pagetree

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors reported by Verify.
var (
	ErrIDSequence      = errors.New("element ids are not a gap-free sequence")
	ErrDanglingPointer = errors.New("pointer target not found")
	ErrParentMismatch  = errors.New("child parent does not match owner")
)

// Walk calls fn once for every element reachable from the page's serialized
// form: both roots, their owned descendants (including default texts, titles,
// bodies and argument pointers), and the three index lists. Pointers are not
// followed. Walk stops early when fn returns false.
func (p *Page) Walk(fn func(*Element) bool) {
	seen := make(map[*Element]bool)
	var visit func(*Element) bool
	visit = func(e *Element) bool {
		if e == nil || seen[e] {
			return true
		}
		seen[e] = true
		if !fn(e) {
			return false
		}
		for _, sub := range []*Element{e.DefaultText, e.Title, e.Body, e.ArgName, e.ArgValue} {
			if !visit(sub) {
				return false
			}
		}
		for _, child := range e.Children {
			if !visit(child) {
				return false
			}
		}
		return true
	}

	roots := []*Element{p.Root, p.Refs}
	roots = append(roots, p.InternalLinks...)
	roots = append(roots, p.ExternalLinks...)
	roots = append(roots, p.Sections...)
	for _, r := range roots {
		if !visit(r) {
			return
		}
	}
}

// Index maps every reachable element by id.
func (p *Page) Index() map[int]*Element {
	idx := make(map[int]*Element)
	p.Walk(func(e *Element) bool {
		idx[e.ID] = e
		return true
	})
	return idx
}

// Lookup returns the element with the given id, or nil.
func (p *Page) Lookup(id int) *Element {
	var found *Element
	p.Walk(func(e *Element) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// Verify checks the page graph invariants: ids are exactly 1..N, every
// pointer resolves to a context in the page, and every owned child names its
// owner as parent.
func (p *Page) Verify() error {
	var errs []error
	var ids []int
	var pointers []*Element
	p.Walk(func(e *Element) bool {
		ids = append(ids, e.ID)
		if e.Kind == KindPointer {
			pointers = append(pointers, e)
		}
		for _, child := range e.Children {
			if child.Parent != e {
				errs = append(errs, fmt.Errorf("%w: element %d under %d", ErrParentMismatch, child.ID, e.ID))
			}
		}
		for _, owned := range []*Element{e.DefaultText, e.Body} {
			if owned != nil && owned.Parent != e {
				errs = append(errs, fmt.Errorf("%w: element %d under %d", ErrParentMismatch, owned.ID, e.ID))
			}
		}
		if (e.Kind == KindSection || e.Kind == KindTemplate) && e.Title != nil && e.Title.Parent != e {
			errs = append(errs, fmt.Errorf("%w: title %d under %d", ErrParentMismatch, e.Title.ID, e.ID))
		}
		return true
	})

	sort.Ints(ids)
	for i, id := range ids {
		if id != i+1 {
			errs = append(errs, fmt.Errorf("%w: position %d holds %d", ErrIDSequence, i+1, id))
			break
		}
	}

	idx := make(map[int]*Element, len(ids))
	p.Walk(func(e *Element) bool {
		idx[e.ID] = e
		return true
	})
	for _, ptr := range pointers {
		target, ok := idx[ptr.TargetID]
		if !ok || !target.Kind.IsContext() || target.Kind == KindPointer {
			errs = append(errs, fmt.Errorf("%w: pointer %d -> %d", ErrDanglingPointer, ptr.ID, ptr.TargetID))
		}
	}
	return errors.Join(errs...)
}
