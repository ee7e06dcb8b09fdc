// Package pagetree is the output model: a page graph of contexts, text runs
// and cross-reference pointers.
//
// Ownership forms a tree rooted at Page.Root and Page.Refs. Pointers refer to
// contexts elsewhere in the same page by id and never own what they point at.
package pagetree

// Kind is the element discriminant.
type Kind string

const (
	KindContext      Kind = "context"
	KindText         Kind = "text"
	KindInternalLink Kind = "internal_link"
	KindExternalLink Kind = "external_link"
	KindHeading      Kind = "heading"
	KindSection      Kind = "section"
	KindImage        Kind = "image"
	KindTemplate     Kind = "template"
	KindRedirection  Kind = "redirection"
	KindPointer      Kind = "pointer"
	KindTemplateArg  Kind = "template_arg"
)

// Context labels.
const (
	LabelPage             = "page"
	LabelRefs             = "refs"
	LabelRoot             = "__root"
	LabelLink             = "__link_"
	LabelHeading          = "__heading_"
	LabelImage            = "__image_"
	LabelImageTitle       = "__image_title"
	LabelSection          = "__section_"
	LabelSectionTitle     = "__section_title"
	LabelSectionBody      = "__section_body"
	LabelTemplate         = "__template_"
	LabelTemplateTitle    = "__template_title"
	LabelTemplateArg      = "__template_arg"
	LabelTemplateArgName  = "__template_arg_name"
	LabelTemplateArgValue = "__template_arg_value"
	LabelPointer          = "__pointer"
	LabelRefPrefix        = "ref_"
	LabelTagExtensionRef  = "tag_extension_ref"
	LabelScratch          = "JUNK"
)

// PropRedirection is the only property carried by a redirection.
const PropRedirection = "redirection"

// IsContext reports whether k belongs to the context family.
func (k Kind) IsContext() bool {
	switch k {
	case KindText, KindRedirection:
		return false
	}
	return true
}

// IsText reports whether k belongs to the text family.
func (k Kind) IsText() bool { return !k.IsContext() }

// IsLink reports whether k is an internal or external link.
func (k Kind) IsLink() bool { return k == KindInternalLink || k == KindExternalLink }

// Element is one node of the page graph. Which payload fields are meaningful
// depends on Kind; see the field comments.
type Element struct {
	ID     int
	Kind   Kind
	Parent *Element

	// Context family.
	Label    string
	Children []*Element

	// Text family.
	Text       string
	Properties []string

	// Links, images, redirections.
	Target string

	// Pointers.
	TargetID int
	Ref      *Element

	// Links.
	DefaultText *Element

	// Headings and sections.
	Level int

	// Sections and templates own Title; images hold a pointer to it.
	Title *Element
	// Sections only. Body is not part of Children.
	Body *Element

	// Images.
	LinkPage string
	LinkURL  string

	// Template arguments: pointers to the owned name and value contexts.
	ArgName  *Element
	ArgValue *Element

	discard bool
}

// Discarding reports whether e is a throwaway attachment point, or was built
// beneath one. Nothing created under a discarding element is kept.
func (e *Element) Discarding() bool { return e != nil && e.discard }

// AllText concatenates the text owned by e in document order. Pointers and
// images contribute nothing; a link without children yields its default text.
func (e *Element) AllText() string {
	switch e.Kind {
	case KindText, KindRedirection:
		return e.Text
	case KindPointer, KindImage:
		return ""
	case KindInternalLink, KindExternalLink:
		if len(e.Children) == 0 {
			if e.DefaultText == nil {
				return ""
			}
			return e.DefaultText.AllText()
		}
	}
	var buf []byte
	for _, child := range e.Children {
		buf = append(buf, child.AllText()...)
	}
	return string(buf)
}
