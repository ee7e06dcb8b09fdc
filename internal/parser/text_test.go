package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/wikitree/internal/wikiast"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	page, err := (&TextParser{}).Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", page.Title)
	}
	if len(page.Content) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(page.Content))
	}

	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	for i, w := range want {
		if page.Content[i].Kind() != wikiast.KindParagraph {
			t.Errorf("child[%d]: expected paragraph, got %s", i, page.Content[i].Kind())
		}
		if got := plain(page.Content[i].Children()); got != w {
			t.Errorf("child[%d]: expected %q, got %q", i, w, got)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	page, err := (&TextParser{}).Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", page.Title)
	}
	if len(page.Content) != 0 {
		t.Errorf("expected no content for empty input, got %d", len(page.Content))
	}
}

func TestTextParser_BlankLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"multiple blank lines", "Para one.\n\n\n\nPara two."},
		{"whitespace-only line", "Para one.\n   \nPara two."},
		{"nbsp-only line", "Para one.\n&nbsp;\nPara two."},
	}
	for _, tt := range tests {
		page, err := (&TextParser{}).Parse(strings.NewReader(tt.input), "gaps.txt")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if len(page.Content) != 2 {
			t.Errorf("%s: expected 2 paragraphs, got %d", tt.name, len(page.Content))
		}
	}
}

func TestCleanWikitext(t *testing.T) {
	if got := CleanWikitext("a&nbsp;b&nbsp;&amp;c"); got != "a b &amp;c" {
		t.Errorf("expected %q, got %q", "a b &amp;c", got)
	}
}
