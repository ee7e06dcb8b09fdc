package pagetree

import (
	"fmt"
	"io"
	"strings"
)

// String returns the indented textual form of e and everything it owns.
func (e *Element) String() string {
	var b strings.Builder
	e.Dump(&b)
	return b.String()
}

// Dump writes the indented textual form of e to w.
func (e *Element) Dump(w io.Writer) {
	dump(w, e, "")
}

func dump(w io.Writer, e *Element, indent string) {
	switch e.Kind {
	case KindText, KindRedirection:
		fmt.Fprintf(w, "%s%s#%d %q {%s}\n", indent, e.Kind, e.ID, e.Text, strings.Join(e.Properties, ", "))
		return
	case KindPointer:
		fmt.Fprintf(w, "%spointer#%d -> %d\n", indent, e.ID, e.TargetID)
		return
	}

	fmt.Fprintf(w, "%s%s#%d %s", indent, e.Kind, e.ID, e.Label)
	switch e.Kind {
	case KindInternalLink, KindExternalLink, KindImage:
		fmt.Fprintf(w, " target=%q", e.Target)
	case KindHeading, KindSection:
		fmt.Fprintf(w, " level=%d", e.Level)
	}
	fmt.Fprintln(w)

	inner := indent + "  "
	if e.Kind.IsLink() && len(e.Children) == 0 && e.DefaultText != nil {
		dump(w, e.DefaultText, inner)
	}
	if e.Kind == KindSection || e.Kind == KindTemplate {
		if e.Title != nil {
			dump(w, e.Title, inner)
		}
	}
	if e.Kind == KindSection && e.Body != nil {
		dump(w, e.Body, inner)
	}
	for _, child := range e.Children {
		dump(w, child, inner)
	}
}
