package wikiast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxNesting bounds how deeply nodes may nest in a decoded document.
const MaxNesting = 4096

// Sentinel errors for tree decoding.
var (
	ErrMissingKind = errors.New("node has no kind")
	ErrNotPage     = errors.New("document root is not a page")
	ErrTooDeep     = errors.New("document nested too deeply")
)

// listMembers are the members that hold node lists.
var listMembers = map[string]bool{
	"title": true, "name": true, "body": true, "value": true,
	"args": true, "attrs": true, "content": true,
}

// fields holds the members of one JSON node object. Strings, numbers and
// node lists keep their JSON types; the kind decides how they are read.
type fields map[string]any

// Decode reads one page document from r.
func Decode(r io.Reader) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal decodes a page document. A bare JSON array is accepted as the
// content of an untitled page.
func Unmarshal(data []byte) (*Page, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		d := newTreeDecoder(trimmed)
		content, err := d.topLevel(func() (any, error) { return d.list() })
		if err != nil {
			return nil, err
		}
		return &Page{Content: content.([]Node)}, nil
	}

	n, err := UnmarshalNode(trimmed)
	if err != nil {
		return nil, err
	}
	p, ok := n.(*Page)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotPage, n.Kind())
	}
	return p, nil
}

// UnmarshalNode decodes a single node. A JSON string decodes to a Text node.
func UnmarshalNode(data []byte) (Node, error) {
	d := newTreeDecoder(bytes.TrimSpace(data))
	n, err := d.topLevel(func() (any, error) { return d.node() })
	if err != nil {
		return nil, err
	}
	return n.(Node), nil
}

// treeDecoder walks the token stream once, building nodes as it goes.
type treeDecoder struct {
	dec   *json.Decoder
	depth int
}

func newTreeDecoder(data []byte) *treeDecoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &treeDecoder{dec: dec}
}

// topLevel runs fn on the single top-level value and rejects trailing data.
func (d *treeDecoder) topLevel(fn func() (any, error)) (any, error) {
	v, err := fn()
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); err != io.EOF {
		return nil, errors.New("decode node: trailing data after document")
	}
	return v, nil
}

// node reads one node: a JSON string or an object carrying a kind.
func (d *treeDecoder) node() (Node, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	switch t := tok.(type) {
	case string:
		return &Text{Value: t}, nil
	case json.Delim:
		if t == '{' {
			return d.object()
		}
	}
	return nil, fmt.Errorf("decode node: unexpected %v", tok)
}

func (d *treeDecoder) object() (Node, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > MaxNesting {
		return nil, fmt.Errorf("%w: more than %d levels", ErrTooDeep, MaxNesting)
	}

	f := fields{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode node: %w", err)
		}
		key, _ := tok.(string)
		v, err := d.value(listMembers[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		f[key] = v
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	kind, _ := f["kind"].(string)
	if kind == "" {
		return nil, ErrMissingKind
	}
	n, err := build(Kind(kind), f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return n, nil
}

// value reads a member value. Arrays under list members are node lists;
// other arrays and objects carry no meaning and are skipped.
func (d *treeDecoder) value(isList bool) (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if t == '[' && isList {
			return d.items()
		}
		return nil, d.skip()
	default:
		return t, nil
	}
}

// list reads a node list whose opening bracket is still in the stream.
func (d *treeDecoder) list() ([]Node, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("decode list: unexpected %v", tok)
	}
	return d.items()
}

// items reads list members up to the closing bracket. An empty list is
// non-nil, so callers can tell "no title" from "empty title".
func (d *treeDecoder) items() ([]Node, error) {
	nodes := []Node{}
	for i := 0; d.dec.More(); i++ {
		n, err := d.node()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return nodes, nil
}

// skip consumes the rest of an array or object whose opening delimiter was
// just read.
func (d *treeDecoder) skip() error {
	for open := 1; open > 0; {
		tok, err := d.dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			open++
			if open > MaxNesting {
				return ErrTooDeep
			}
		case json.Delim('}'), json.Delim(']'):
			open--
		}
	}
	return nil
}

func (f fields) str(key string) (string, error) {
	switch v := f[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
}

// list returns nil for an absent or null member.
func (f fields) list(key string) ([]Node, error) {
	switch v := f[key].(type) {
	case nil:
		return nil, nil
	case []Node:
		return v, nil
	default:
		return nil, fmt.Errorf("%s: expected list, got %T", key, v)
	}
}

func (f fields) number(key string) (int, error) {
	switch v := f[key].(type) {
	case nil:
		return 0, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s: expected number, got %T", key, v)
	}
}

// text reads several string members in order.
func (f fields) text(keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for i, k := range keys {
		s, err := f.str(k)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func build(kind Kind, f fields) (Node, error) {
	content, err := f.list("content")
	if err != nil {
		return nil, err
	}

	switch {
	case IsSpan(kind):
		return &Span{Of: kind, Content: content}, nil
	case IsSilent(kind):
		return &Silent{Of: kind}, nil
	}

	switch kind {
	case KindPage:
		title, err := f.str("title")
		if err != nil {
			return nil, fmt.Errorf("page title: %w", err)
		}
		return &Page{Title: title, Content: content}, nil
	case KindText:
		s, err := f.str("text")
		if err != nil {
			return nil, err
		}
		return &Text{Value: s}, nil
	case KindXMLEntityRef:
		name, err := f.str("name")
		if err != nil {
			return nil, err
		}
		return &XMLEntityRef{Name: name, Content: content}, nil
	case KindHeading:
		level, err := f.number("level")
		if err != nil {
			return nil, err
		}
		return &Heading{Level: level, Content: content}, nil
	case KindSection:
		level, err := f.number("level")
		if err != nil {
			return nil, err
		}
		title, err := f.list("title")
		if err != nil {
			return nil, err
		}
		body, err := f.list("body")
		if err != nil {
			return nil, err
		}
		return &Section{Level: level, Title: title, Body: body}, nil
	case KindInternalLink, KindExternalLink:
		target, err := f.str("target")
		if err != nil {
			return nil, err
		}
		title, err := f.list("title")
		if err != nil {
			return nil, err
		}
		if kind == KindInternalLink {
			return &InternalLink{Target: target, Title: title}, nil
		}
		return &ExternalLink{Target: target, Title: title}, nil
	case KindURL:
		s, err := f.text("protocol", "path")
		if err != nil {
			return nil, err
		}
		return &URL{Protocol: s[0], Path: s[1]}, nil
	case KindImageLink:
		s, err := f.text("target", "link_page", "link_url")
		if err != nil {
			return nil, err
		}
		title, err := f.list("title")
		if err != nil {
			return nil, err
		}
		return &ImageLink{Target: s[0], LinkPage: s[1], LinkURL: s[2], Title: title}, nil
	case KindTemplate:
		name, err := f.list("name")
		if err != nil {
			return nil, err
		}
		args, err := f.list("args")
		if err != nil {
			return nil, err
		}
		return &Template{Name: name, Args: args}, nil
	case KindTemplateArgument:
		name, err := f.list("name")
		if err != nil {
			return nil, err
		}
		value, err := f.list("value")
		if err != nil {
			return nil, err
		}
		return &TemplateArgument{Name: name, Value: value}, nil
	case KindRedirect:
		target, err := f.str("target")
		if err != nil {
			return nil, err
		}
		return &Redirect{Target: target}, nil
	case KindTagExtension:
		s, err := f.text("name", "body")
		if err != nil {
			return nil, err
		}
		attrs, err := f.list("attrs")
		if err != nil {
			return nil, err
		}
		return &TagExtension{Name: s[0], Attrs: attrs, Body: s[1]}, nil
	case KindMagicWord:
		word, err := f.str("word")
		if err != nil {
			return nil, err
		}
		return &MagicWord{Word: word}, nil
	case KindLinkTarget:
		s, err := f.str("text")
		if err != nil {
			return nil, err
		}
		return &LinkTarget{Value: s}, nil
	default:
		return &Generic{Of: kind, Content: content}, nil
	}
}
