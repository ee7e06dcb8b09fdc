package pagetree

import "encoding/json"

// Value returns the JSON-like form of e: an object with id, kind and the
// kind-specific fields. Pointers carry no children.
func (e *Element) Value() map[string]any {
	v := map[string]any{
		"id":   e.ID,
		"kind": string(e.Kind),
	}

	if e.Kind.IsText() {
		props := e.Properties
		if props == nil {
			props = []string{}
		}
		v["text"] = e.Text
		v["properties"] = props
		if e.Kind == KindRedirection {
			v["target"] = e.Target
		}
		return v
	}

	v["label"] = e.Label
	if e.Kind == KindPointer {
		v["target"] = e.TargetID
		return v
	}
	v["children"] = values(e.Children)

	switch e.Kind {
	case KindInternalLink, KindExternalLink:
		v["target"] = e.Target
		if e.DefaultText != nil {
			v["default_text"] = e.DefaultText.Value()
		}
	case KindHeading:
		v["level"] = e.Level
	case KindSection:
		v["level"] = e.Level
		v["title"] = e.Title.Value()
		v["body"] = e.Body.Value()
	case KindImage:
		v["link_page"] = e.LinkPage
		v["url"] = e.LinkURL
		v["target"] = e.Target
		v["title"] = e.Title.Value()
	case KindTemplate:
		v["title"] = e.Title.Value()
	case KindTemplateArg:
		v["name"] = e.ArgName.Value()
		v["value"] = e.ArgValue.Value()
	}
	return v
}

// MarshalJSON encodes Value.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Value())
}

// Value returns the JSON-like form of the page.
func (p *Page) Value() map[string]any {
	v := map[string]any{
		"root":           p.Root.Value(),
		"refs":           p.Refs.Value(),
		"internal_links": values(p.InternalLinks),
		"external_links": values(p.ExternalLinks),
		"sections":       values(p.Sections),
	}
	if len(p.Skipped) > 0 {
		v["skipped"] = p.Skipped
	}
	return v
}

// MarshalJSON encodes Value.
func (p *Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value())
}

func values(elems []*Element) []any {
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Value())
	}
	return out
}
