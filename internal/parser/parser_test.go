package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikitree/internal/wikiast"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.json", "*parser.JSONParser"},
		{"a.TXT", "*parser.TextParser"},
		{"a.markdown", "*parser.MarkdownParser"},
		{"a.csv", "*parser.CSVParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
	}

	if _, err := ForFile("a.exe", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("a.exe") || !IsSupportedExtension("a.JSON") {
		t.Error("unexpected IsSupportedExtension result")
	}
}

func TestForFile_PDFOption(t *testing.T) {
	p, err := ForFile("scan.pdf", Options{FallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected fallback option to be carried")
	}
}

func TestForFormat(t *testing.T) {
	p, err := ForFormat("", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*JSONParser); !ok {
		t.Errorf("expected json parser by default, got %s", typeName(p))
	}
	if p, _ := ForFormat("MD", Options{}); typeName(p) != "*parser.MarkdownParser" {
		t.Errorf("expected markdown parser, got %s", typeName(p))
	}
	if _, err := ForFormat("rtf", Options{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *JSONParser:
		return "*parser.JSONParser"
	case *TextParser:
		return "*parser.TextParser"
	case *MarkdownParser:
		return "*parser.MarkdownParser"
	case *CSVParser:
		return "*parser.CSVParser"
	case *HTMLParser:
		return "*parser.HTMLParser"
	case *PDFParser:
		return "*parser.PDFParser"
	case *DOCXParser:
		return "*parser.DOCXParser"
	}
	return "unknown"
}

func TestJSONParser(t *testing.T) {
	src := `{"kind":"page","content":[{"kind":"bold","content":["x"]}]}`
	page, err := (&JSONParser{}).Parse(strings.NewReader(src), "Gopher.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "Gopher" {
		t.Errorf("expected title from filename, got %q", page.Title)
	}
	if len(page.Content) != 1 || page.Content[0].Kind() != wikiast.KindBold {
		t.Errorf("expected one bold span, got %d nodes", len(page.Content))
	}

	if _, err := (&JSONParser{}).Parse(strings.NewReader(`{"content":[]}`), "x.json"); err == nil {
		t.Error("expected error for node without kind")
	}
}

func TestCSVParser(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,qty\n")
	for i := 0; i < 25; i++ {
		b.WriteString("item,1\n")
	}

	page, err := (&CSVParser{}).Parse(strings.NewReader(b.String()), "stock.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Content) != 2 {
		t.Fatalf("expected 2 row batches, got %d", len(page.Content))
	}
	first := section(t, page.Content[0])
	if plain(first.Title) != "Rows 2-21" {
		t.Errorf("expected %q, got %q", "Rows 2-21", plain(first.Title))
	}
	table := first.Body[0].(*wikiast.Span)
	if table.Of != wikiast.KindTable || len(table.Content) != 21 {
		t.Fatalf("expected table with header and 20 rows, got %s with %d", table.Of, len(table.Content))
	}
	header := table.Content[0].Children()
	if header[0].Kind() != wikiast.KindTableHeader || plain(header) != "nameqty" {
		t.Errorf("unexpected header row %q", plain(header))
	}
	last := section(t, page.Content[1])
	if plain(last.Title) != "Rows 22-26" {
		t.Errorf("expected %q, got %q", "Rows 22-26", plain(last.Title))
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	page, err := (&CSVParser{}).Parse(strings.NewReader("a,b\n"), "h.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Kind() != wikiast.KindTable {
		t.Errorf("expected a single header table, got %d nodes", len(page.Content))
	}
}

func TestHTMLParser(t *testing.T) {
	src := `<html><head><title>Gophers</title><style>p{}</style></head><body>` +
		`<h1>Top</h1><p>Intro <b>bold</b><!-- note --></p>` +
		`<h2>Sub</h2><ul><li>one</li></ul><a href="https://go.dev">site</a><a href="Other">other</a>` +
		`<img src="g.png" alt="gopher">` +
		`</body></html>`

	page, err := (&HTMLParser{}).Parse(strings.NewReader(src), "g.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "Gophers" {
		t.Errorf("expected title from <title>, got %q", page.Title)
	}
	if len(page.Content) != 1 {
		t.Fatalf("expected one top section, got %d", len(page.Content))
	}
	top := section(t, page.Content[0])
	if plain(top.Title) != "Top" || len(top.Body) != 2 {
		t.Fatalf("expected Top with paragraph and subsection, got %q with %d", plain(top.Title), len(top.Body))
	}
	para := top.Body[0].(*wikiast.Span)
	if para.Of != wikiast.KindParagraph || para.Content[1].Kind() != wikiast.KindBold {
		t.Errorf("expected paragraph with bold, got %s", para.Of)
	}
	if para.Content[2].Kind() != wikiast.KindXMLComment {
		t.Errorf("expected silent comment, got %s", para.Content[2].Kind())
	}

	sub := section(t, top.Body[1])
	var kinds []wikiast.Kind
	for _, n := range sub.Body {
		kinds = append(kinds, n.Kind())
	}
	want := []wikiast.Kind{wikiast.KindItemization, wikiast.KindExternalLink, wikiast.KindInternalLink, wikiast.KindImageLink}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("body %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
	img := sub.Body[3].(*wikiast.ImageLink)
	if img.Target != "g.png" || plain(img.Title) != "gopher" {
		t.Errorf("unexpected image %+v", img)
	}
}

func TestPDFPage(t *testing.T) {
	page := pdfPage("report", "Page one text.\n\nSecond para.\f\fThird page.")
	if len(page.Content) != 2 {
		t.Fatalf("expected 2 non-empty pages, got %d", len(page.Content))
	}
	first := section(t, page.Content[0])
	if plain(first.Title) != "Page 1" || len(first.Body) != 2 {
		t.Errorf("expected Page 1 with 2 paragraphs, got %q with %d", plain(first.Title), len(first.Body))
	}
	last := section(t, page.Content[1])
	if plain(last.Title) != "Page 3" {
		t.Errorf("expected blank page to keep numbering, got %q", plain(last.Title))
	}
}

func TestSectionBuilder(t *testing.T) {
	var b sectionBuilder
	b.add(wikiast.Plain("lead"))
	b.heading(2, []wikiast.Node{wikiast.Plain("A")})
	b.heading(4, []wikiast.Node{wikiast.Plain("A.1")})
	b.add(wikiast.Plain("deep"))
	b.heading(3, []wikiast.Node{wikiast.Plain("A.2")})
	b.heading(1, []wikiast.Node{wikiast.Plain("B")})

	nodes := b.nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected lead, A, B at top level, got %d", len(nodes))
	}
	a := section(t, nodes[1])
	if len(a.Body) != 2 {
		t.Fatalf("expected A.1 and A.2 under A, got %d", len(a.Body))
	}
	if plain(section(t, a.Body[0]).Body) != "deep" {
		t.Error("expected text under the innermost open section")
	}
}
