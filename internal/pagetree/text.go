package pagetree

import (
	"strconv"
	"strings"
)

// ParseProperty splits a numbered property such as "bold(3)" into its name
// and sequence number. Bare properties such as "url" return ok == false.
func ParseProperty(prop string) (name string, seq int, ok bool) {
	open := strings.LastIndexByte(prop, '(')
	if open <= 0 || !strings.HasSuffix(prop, ")") {
		return prop, 0, false
	}
	n, err := strconv.Atoi(prop[open+1 : len(prop)-1])
	if err != nil || n < 0 {
		return prop, 0, false
	}
	return prop[:open], n, true
}

// Run is a span of text with the properties in force where it was created.
type Run struct {
	Text       string   `json:"text"`
	Properties []string `json:"properties"`
}

// Runs flattens the readable text under e into runs. Unlike AllText it
// follows pointers, each target at most once, so inline references read in
// place. Images and redirections are skipped; sections read their body.
func (p *Page) Runs(e *Element) []Run {
	var runs []Run
	seen := make(map[*Element]bool)
	var visit func(*Element)
	visit = func(e *Element) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		switch e.Kind {
		case KindText:
			runs = append(runs, Run{Text: e.Text, Properties: e.Properties})
			return
		case KindRedirection, KindImage:
			return
		case KindPointer:
			visit(e.Ref)
			return
		case KindSection:
			visit(e.Body)
			return
		case KindInternalLink, KindExternalLink:
			if len(e.Children) == 0 {
				visit(e.DefaultText)
				return
			}
		}
		for _, child := range e.Children {
			visit(child)
		}
	}
	visit(e)
	return runs
}

// HasProperty reports whether props contains a property with the given name,
// numbered or bare.
func HasProperty(props []string, name string) bool {
	for _, prop := range props {
		if n, _, _ := ParseProperty(prop); n == name {
			return true
		}
	}
	return false
}
