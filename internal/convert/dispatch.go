package convert

import (
	"fmt"
	"strings"

	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/wikiast"
)

// spanProperties maps formatting spans to the property they push.
// Spans not listed (paragraphs, rules) are transparent.
var spanProperties = map[wikiast.Kind]string{
	wikiast.KindBold:              "bold",
	wikiast.KindItalics:           "italics",
	wikiast.KindDefinitionList:    "defList",
	wikiast.KindDefinitionTerm:    "term",
	wikiast.KindDefinitionDef:     "def",
	wikiast.KindEnumeration:       "enum",
	wikiast.KindEnumerationItem:   "enumItem",
	wikiast.KindItemization:       "items",
	wikiast.KindItemizationItem:   "itemsItem",
	wikiast.KindTable:             "table",
	wikiast.KindTableCaption:      "tableCaption",
	wikiast.KindTableRow:          "tableRow",
	wikiast.KindTableHeader:       "tableHeader",
	wikiast.KindTableCell:         "tableCell",
	wikiast.KindXMLElement:        "xml",
	wikiast.KindXMLElementOpen:    "xmlOpen",
	wikiast.KindXMLElementClose:   "xmlClose",
	wikiast.KindXMLElementEmpty:   "xmlEmpty",
	wikiast.KindXMLCharRef:        "xmlCharRef",
	wikiast.KindTemplateParameter: "tempParameter",
	wikiast.KindLinkTitle:         "link",
}

const (
	propEntityRef = "xmlEntRef"
	propMagic     = "magic"
	propURL       = "url"
	propTagPrefix = "tag_extension_"
)

// dispatch converts one node at the current attachment point. A returned
// error means the node was skipped; nested lists handle their own errors.
func (s *state) dispatch(n wikiast.Node) error {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > s.conv.maxDepth {
		return fmt.Errorf("%w: limit %d", ErrDepthExceeded, s.conv.maxDepth)
	}

	switch n := n.(type) {
	case nil:
		return ErrNilNode

	case *wikiast.Page:
		s.visitList(n.Content)

	case *wikiast.Text:
		s.emit(n.Value)

	case *wikiast.Span:
		s.span(n)

	case *wikiast.XMLEntityRef:
		s.withProperty(propEntityRef, func() { s.visitList(n.Content) })

	case *wikiast.MagicWord:
		s.withBareProperty(propMagic, func() { s.emit(n.Word) })

	case *wikiast.URL:
		text := n.Path
		if n.Protocol != "" {
			text = n.Protocol + ":" + n.Path
		}
		s.withBareProperty(propURL, func() { s.emit(text) })

	case *wikiast.LinkTarget:
		s.emit(n.Value)

	case *wikiast.Heading:
		if n.Level < 1 {
			return fmt.Errorf("%w: heading level %d", ErrInvalidLevel, n.Level)
		}
		s.enterContext(s.page.NewHeading(n.Level, s.cur), n.Content)

	case *wikiast.Section:
		if n.Level < 1 {
			return fmt.Errorf("%w: section level %d", ErrInvalidLevel, n.Level)
		}
		s.section(n)

	case *wikiast.InternalLink:
		s.link(n.Target, true, n.Title)

	case *wikiast.ExternalLink:
		s.link(n.Target, false, n.Title)

	case *wikiast.ImageLink:
		s.image(n)

	case *wikiast.Template:
		s.template(n)

	case *wikiast.TemplateArgument:
		s.templateArg(n)

	case *wikiast.Redirect:
		s.page.Prepend(s.page.Root, s.page.NewRedirection(n.Target))

	case *wikiast.TagExtension:
		s.tagExtension(n)

	case *wikiast.Silent:
		// no output

	default:
		s.visitList(n.Children())
	}
	return nil
}

func (s *state) span(n *wikiast.Span) {
	prop, ok := spanProperties[n.Of]
	if !ok {
		s.visitList(n.Content)
		return
	}
	if n.Of == wikiast.KindItemizationItem {
		s.emit("\n")
	}
	s.withProperty(prop, func() { s.visitList(n.Content) })
}

func (s *state) link(target string, internal bool, title []wikiast.Node) {
	le := s.page.NewLink(target, internal, s.props, s.cur)
	if title == nil {
		s.page.Append(s.cur, le)
		return
	}
	s.enterContext(le, title)
}

func (s *state) section(n *wikiast.Section) {
	title := s.page.Provisional(pagetree.LabelSectionTitle, s.cur)
	body := s.page.Provisional(pagetree.LabelSectionBody, s.cur)
	s.enterNewContext(title, n.Title)
	s.enterNewContext(body, n.Body)
	s.page.Append(s.cur, s.page.NewSection(n.Level, title, body, s.cur))
}

func (s *state) image(n *wikiast.ImageLink) {
	title := s.page.Provisional(pagetree.LabelImageTitle, s.cur)
	s.enterNewContext(title, n.Title)
	s.page.Append(s.cur, s.page.NewImage(n.LinkPage, n.LinkURL, n.Target, title, s.cur))
}

// template attaches at the page root wherever it occurs.
func (s *state) template(n *wikiast.Template) {
	title := s.page.Provisional(pagetree.LabelTemplateTitle, s.page.Root)
	s.enterNewContext(title, n.Name)
	tmpl := s.page.NewTemplate(title)
	s.enterNewContext(tmpl, n.Args)
	s.page.Append(s.page.Root, tmpl)
}

func (s *state) templateArg(n *wikiast.TemplateArgument) {
	name := s.page.Provisional(pagetree.LabelTemplateArgName, s.cur)
	value := s.page.Provisional(pagetree.LabelTemplateArgValue, s.cur)
	s.enterNewContext(name, n.Name)
	s.enterNewContext(value, n.Value)
	s.page.Append(s.cur, s.page.NewTemplateArg(name, value, s.cur))
}

func (s *state) tagExtension(n *wikiast.TagExtension) {
	if !strings.EqualFold(n.Name, s.conv.refTag) {
		s.withBareProperty(propTagPrefix+n.Name, func() { s.emit(n.Body) })
		return
	}
	ref := s.refContext(pagetree.LabelTagExtensionRef, s.cur)
	s.page.Append(s.cur, s.page.NewPointer(ref, s.cur))
	s.page.Append(s.page.Refs, ref)
	s.enterNewContext(ref, n.Attrs)
}
