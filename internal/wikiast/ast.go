// Package wikiast defines the source document tree consumed by the converter.
//
// The tree is produced by an external wikitext parser. Node kinds form a closed
// set: every known kind has a concrete type below, and anything else decodes
// to Generic, which the converter treats as a transparent container.
package wikiast

// Kind identifies a source node kind.
type Kind string

const (
	KindPage Kind = "page"
	KindText Kind = "text"

	// Formatting spans.
	KindBold                Kind = "bold"
	KindItalics             Kind = "italics"
	KindDefinitionList      Kind = "definition_list"
	KindDefinitionTerm      Kind = "definition_term"
	KindDefinitionDef       Kind = "definition_definition"
	KindEnumeration         Kind = "enumeration"
	KindEnumerationItem     Kind = "enumeration_item"
	KindItemization         Kind = "itemization"
	KindItemizationItem     Kind = "itemization_item"
	KindTable               Kind = "table"
	KindTableCaption        Kind = "table_caption"
	KindTableRow            Kind = "table_row"
	KindTableHeader         Kind = "table_header"
	KindTableCell           Kind = "table_cell"
	KindXMLElement          Kind = "xml_element"
	KindXMLElementOpen      Kind = "xml_element_open"
	KindXMLElementClose     Kind = "xml_element_close"
	KindXMLElementEmpty     Kind = "xml_element_empty"
	KindXMLCharRef          Kind = "xml_char_ref"
	KindTemplateParameter   Kind = "template_parameter"
	KindLinkTitle           Kind = "link_title"
	KindParagraph           Kind = "paragraph"
	KindHorizontalRule      Kind = "horizontal_rule"
	KindXMLEntityRef        Kind = "xml_entity_ref"
	KindHeading             Kind = "heading"
	KindSection             Kind = "section"
	KindInternalLink        Kind = "internal_link"
	KindExternalLink        Kind = "external_link"
	KindURL                 Kind = "url"
	KindImageLink           Kind = "image_link"
	KindTemplate            Kind = "template"
	KindTemplateArgument    Kind = "template_argument"
	KindRedirect            Kind = "redirect"
	KindTagExtension        Kind = "tag_extension"
	KindMagicWord           Kind = "magic_word"
	KindLinkTarget          Kind = "link_target"
	KindSignature           Kind = "signature"
	KindTicks               Kind = "ticks"
	KindXMLComment          Kind = "xml_comment"
	KindIgnored             Kind = "ignored"
	KindXMLAttribute        Kind = "xml_attribute"
	KindXMLAttributeGarbage Kind = "xml_attribute_garbage"
)

// spanKinds are kinds decoded into Span.
var spanKinds = map[Kind]bool{
	KindBold:              true,
	KindItalics:           true,
	KindDefinitionList:    true,
	KindDefinitionTerm:    true,
	KindDefinitionDef:     true,
	KindEnumeration:       true,
	KindEnumerationItem:   true,
	KindItemization:       true,
	KindItemizationItem:   true,
	KindTable:             true,
	KindTableCaption:      true,
	KindTableRow:          true,
	KindTableHeader:       true,
	KindTableCell:         true,
	KindXMLElement:        true,
	KindXMLElementOpen:    true,
	KindXMLElementClose:   true,
	KindXMLElementEmpty:   true,
	KindXMLCharRef:        true,
	KindTemplateParameter: true,
	KindLinkTitle:         true,
	KindParagraph:         true,
	KindHorizontalRule:    true,
}

// silentKinds produce no output and are never descended into.
var silentKinds = map[Kind]bool{
	KindSignature:           true,
	KindTicks:               true,
	KindXMLComment:          true,
	KindIgnored:             true,
	KindXMLAttribute:        true,
	KindXMLAttributeGarbage: true,
}

// IsSpan reports whether k is decoded as a Span.
func IsSpan(k Kind) bool { return spanKinds[k] }

// IsSilent reports whether k is decoded as a Silent node.
func IsSilent(k Kind) bool { return silentKinds[k] }

// Node is a source tree node.
type Node interface {
	Kind() Kind
	// Children returns the node's sub-parts in document order.
	Children() []Node
	node()
}

// Page is the document root.
type Page struct {
	Title   string
	Content []Node
}

// Text is a literal text run.
type Text struct {
	Value string
}

// Span is a formatting or grouping container. Of names its kind.
type Span struct {
	Of      Kind
	Content []Node
}

// XMLEntityRef is an entity reference such as &amp;. Entity references also
// delimit split inline reference tags within a sibling list.
type XMLEntityRef struct {
	Name    string
	Content []Node
}

// Heading is a heading outside of section structure.
type Heading struct {
	Level   int
	Content []Node
}

// Section is a titled section with a body.
type Section struct {
	Level int
	Title []Node
	Body  []Node
}

// InternalLink is a [[target|title]] link. A nil Title means no title was given.
type InternalLink struct {
	Target string
	Title  []Node
}

// ExternalLink is a [url title] link. A nil Title means no title was given.
type ExternalLink struct {
	Target string
	Title  []Node
}

// URL is a bare URL in running text.
type URL struct {
	Protocol string
	Path     string
}

// ImageLink is an embedded image with an optional caption.
type ImageLink struct {
	Target   string
	LinkPage string
	LinkURL  string
	Title    []Node
}

// Template is a {{name|args}} transclusion.
type Template struct {
	Name []Node
	Args []Node
}

// TemplateArgument is one template argument.
type TemplateArgument struct {
	Name  []Node
	Value []Node
}

// Redirect is a #REDIRECT directive.
type Redirect struct {
	Target string
}

// TagExtension is an extension tag such as <ref> or <math>.
type TagExtension struct {
	Name  string
	Attrs []Node
	Body  string
}

// MagicWord is a behavior switch such as __NOTOC__.
type MagicWord struct {
	Word string
}

// LinkTarget is a raw link target appearing as content.
type LinkTarget struct {
	Value string
}

// Silent is a node that produces no output.
type Silent struct {
	Of Kind
}

// Generic is any node kind without dedicated handling.
type Generic struct {
	Of      Kind
	Content []Node
}

func (*Page) Kind() Kind             { return KindPage }
func (*Text) Kind() Kind             { return KindText }
func (s *Span) Kind() Kind           { return s.Of }
func (*XMLEntityRef) Kind() Kind     { return KindXMLEntityRef }
func (*Heading) Kind() Kind          { return KindHeading }
func (*Section) Kind() Kind          { return KindSection }
func (*InternalLink) Kind() Kind     { return KindInternalLink }
func (*ExternalLink) Kind() Kind     { return KindExternalLink }
func (*URL) Kind() Kind              { return KindURL }
func (*ImageLink) Kind() Kind        { return KindImageLink }
func (*Template) Kind() Kind         { return KindTemplate }
func (*TemplateArgument) Kind() Kind { return KindTemplateArgument }
func (*Redirect) Kind() Kind         { return KindRedirect }
func (*TagExtension) Kind() Kind     { return KindTagExtension }
func (*MagicWord) Kind() Kind        { return KindMagicWord }
func (*LinkTarget) Kind() Kind       { return KindLinkTarget }
func (s *Silent) Kind() Kind         { return s.Of }
func (g *Generic) Kind() Kind        { return g.Of }

func (p *Page) Children() []Node         { return p.Content }
func (*Text) Children() []Node           { return nil }
func (s *Span) Children() []Node         { return s.Content }
func (e *XMLEntityRef) Children() []Node { return e.Content }
func (h *Heading) Children() []Node      { return h.Content }
func (s *Section) Children() []Node      { return concat(s.Title, s.Body) }
func (l *InternalLink) Children() []Node { return l.Title }
func (l *ExternalLink) Children() []Node { return l.Title }
func (*URL) Children() []Node            { return nil }
func (i *ImageLink) Children() []Node    { return i.Title }
func (t *Template) Children() []Node     { return concat(t.Name, t.Args) }
func (a *TemplateArgument) Children() []Node {
	return concat(a.Name, a.Value)
}
func (*Redirect) Children() []Node       { return nil }
func (t *TagExtension) Children() []Node { return t.Attrs }
func (*MagicWord) Children() []Node      { return nil }
func (*LinkTarget) Children() []Node     { return nil }
func (*Silent) Children() []Node         { return nil }
func (g *Generic) Children() []Node      { return g.Content }

func (*Page) node()             {}
func (*Text) node()             {}
func (*Span) node()             {}
func (*XMLEntityRef) node()     {}
func (*Heading) node()          {}
func (*Section) node()          {}
func (*InternalLink) node()     {}
func (*ExternalLink) node()     {}
func (*URL) node()              {}
func (*ImageLink) node()        {}
func (*Template) node()         {}
func (*TemplateArgument) node() {}
func (*Redirect) node()         {}
func (*TagExtension) node()     {}
func (*MagicWord) node()        {}
func (*LinkTarget) node()       {}
func (*Silent) node()           {}
func (*Generic) node()          {}

func concat(a, b []Node) []Node {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]Node, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Plain returns a Text node, for building trees by hand.
func Plain(s string) *Text { return &Text{Value: s} }

// Wrap returns a Span of kind k around content.
func Wrap(k Kind, content ...Node) *Span { return &Span{Of: k, Content: content} }
