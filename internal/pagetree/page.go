package pagetree

import "strconv"

// Page is the page-level aggregate returned by one conversion.
type Page struct {
	Root *Element
	Refs *Element
	// Main is the synthetic top-level context under Root that receives the
	// document body.
	Main *Element

	InternalLinks []*Element
	ExternalLinks []*Element
	Sections      []*Element

	// Skipped lists source nodes dropped by recoverable failures.
	Skipped []Diagnostic

	lastID int
}

// Diagnostic describes a source node that was skipped during conversion.
type Diagnostic struct {
	NodeKind string `json:"node_kind"`
	Error    string `json:"error"`
}

// NewPage returns an empty page with ids starting at 1: Refs is 1, Root is 2
// and Main is 3.
func NewPage() *Page {
	p := &Page{}
	p.Refs = p.NewContext(LabelRefs, nil)
	p.Root = p.NewContext(LabelPage, nil)
	p.Main = p.NewContext(LabelRoot, p.Root)
	p.Append(p.Root, p.Main)
	return p
}

// LastID returns the most recently assigned id.
func (p *Page) LastID() int { return p.lastID }

func (p *Page) newElement(kind Kind, parent *Element) *Element {
	return p.build(kind, parent, parent.Discarding())
}

// build allocates the next id unless the element is discarded.
func (p *Page) build(kind Kind, parent *Element, discard bool) *Element {
	e := &Element{Kind: kind, Parent: parent}
	if discard {
		e.discard = true
		return e
	}
	p.lastID++
	e.ID = p.lastID
	return e
}

// NewContext returns a plain context whose parent is parent.
func (p *Page) NewContext(label string, parent *Element) *Element {
	e := p.newElement(KindContext, parent)
	e.Label = label
	e.Children = []*Element{}
	return e
}

// Provisional returns a context with no parent yet, for parts that are built
// before their owner exists. within is the attachment point it is built
// under; it only decides whether the context is discarding. The owner
// commits itself as parent through Adopt.
func (p *Page) Provisional(label string, within *Element) *Element {
	e := p.NewContext(label, within)
	e.Parent = nil
	return e
}

// NewScratch returns a detached, discarding context. Appends to it are
// dropped and nothing built beneath it consumes an id.
func (p *Page) NewScratch() *Element {
	return &Element{Kind: KindContext, Label: LabelScratch, Children: []*Element{}, discard: true}
}

// Adopt commits owner as the parent of each provisional child.
func (p *Page) Adopt(owner *Element, children ...*Element) {
	for _, c := range children {
		c.Parent = owner
	}
}

// NewText returns a text element holding a copy of props.
func (p *Page) NewText(text string, props []string, parent *Element) *Element {
	e := p.newElement(KindText, parent)
	e.Text = text
	e.Properties = append([]string{}, props...)
	return e
}

// NewPointer returns a pointer to target.
func (p *Page) NewPointer(target *Element, parent *Element) *Element {
	e := p.newElement(KindPointer, parent)
	e.Label = LabelPointer + target.Label
	e.TargetID = target.ID
	e.Ref = target
	return e
}

// NewLink returns an internal or external link and registers a pointer to it
// in the matching link index. props are applied to the default text.
func (p *Page) NewLink(target string, internal bool, props []string, parent *Element) *Element {
	kind := KindExternalLink
	if internal {
		kind = KindInternalLink
	}
	e := p.newElement(kind, parent)
	e.Label = LabelLink + target
	e.Target = target
	e.Children = []*Element{}

	if !e.discard {
		ptr := p.NewPointer(e, nil)
		if internal {
			p.InternalLinks = append(p.InternalLinks, ptr)
		} else {
			p.ExternalLinks = append(p.ExternalLinks, ptr)
		}
	}
	e.DefaultText = p.NewText(target, props, e)
	return e
}

// NewHeading returns a heading context.
func (p *Page) NewHeading(level int, parent *Element) *Element {
	e := p.newElement(KindHeading, parent)
	e.Label = LabelHeading + strconv.Itoa(level)
	e.Level = level
	e.Children = []*Element{}
	return e
}

// NewSection returns a section owning title and body, and registers a pointer
// to it in the section index.
func (p *Page) NewSection(level int, title, body *Element, parent *Element) *Element {
	e := p.newElement(KindSection, parent)
	e.Label = LabelSection + strconv.Itoa(level)
	e.Level = level
	e.Title = title
	e.Body = body
	e.Children = []*Element{}
	p.Adopt(e, title, body)

	if !e.discard {
		p.Sections = append(p.Sections, p.NewPointer(e, nil))
	}
	return e
}

// NewImage returns an image whose sole child is title.
func (p *Page) NewImage(linkPage, linkURL, target string, title *Element, parent *Element) *Element {
	e := p.newElement(KindImage, parent)
	e.Label = LabelImage + target
	e.LinkPage = linkPage
	e.LinkURL = linkURL
	e.Target = target
	e.Children = []*Element{}
	e.Title = p.NewPointer(title, e)
	p.Append(e, title)
	p.Adopt(e, title)
	return e
}

// NewTemplate returns a template owning title. Templates always belong to the
// page root.
func (p *Page) NewTemplate(title *Element) *Element {
	e := p.newElement(KindTemplate, p.Root)
	e.Label = LabelTemplate
	e.Title = title
	e.Children = []*Element{}
	p.Adopt(e, title)
	return e
}

// NewTemplateArg returns a template argument owning name and value.
func (p *Page) NewTemplateArg(name, value *Element, parent *Element) *Element {
	e := p.newElement(KindTemplateArg, parent)
	e.Label = LabelTemplateArg
	e.Children = []*Element{}
	e.ArgName = p.NewPointer(name, e)
	e.ArgValue = p.NewPointer(value, e)
	p.Append(e, name, value)
	p.Adopt(e, name, value)
	return e
}

// NewRedirection returns a redirection text owned by the page root. It is
// kept even when the directive sits in a discarded region of the source.
func (p *Page) NewRedirection(target string) *Element {
	e := p.newElement(KindRedirection, p.Root)
	e.Text = target
	e.Target = target
	e.Properties = []string{PropRedirection}
	return e
}

// Append adds children at the tail of parent. Appending to, or appending an
// element built under, a discarding context is a no-op.
func (p *Page) Append(parent *Element, children ...*Element) {
	if parent.Discarding() {
		return
	}
	for _, c := range children {
		if c.Discarding() {
			continue
		}
		parent.Children = append(parent.Children, c)
	}
}

// Prepend inserts child at index 0 of parent.
func (p *Page) Prepend(parent *Element, child *Element) {
	if parent.Discarding() || child.Discarding() {
		return
	}
	parent.Children = append([]*Element{child}, parent.Children...)
}

// RedirectTarget returns the target of the page's redirection, if any.
func (p *Page) RedirectTarget() (string, bool) {
	if len(p.Root.Children) == 0 {
		return "", false
	}
	first := p.Root.Children[0]
	if first.Kind != KindRedirection {
		return "", false
	}
	return first.Target, true
}
