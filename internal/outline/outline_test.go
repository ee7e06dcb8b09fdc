package outline

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/wikiast"
)

func samplePage(t *testing.T) *pagetree.Page {
	t.Helper()
	doc := &wikiast.Page{Content: []wikiast.Node{
		wikiast.Plain("Lead. "),
		&wikiast.Section{Level: 2, Title: []wikiast.Node{wikiast.Plain("History")}, Body: []wikiast.Node{
			wikiast.Plain("Old "),
			&wikiast.TagExtension{Name: "ref", Attrs: []wikiast.Node{wikiast.Plain("cite")}},
			&wikiast.Section{Level: 3, Title: []wikiast.Node{wikiast.Plain("Early")}, Body: []wikiast.Node{
				wikiast.Plain("Very old"),
			}},
		}},
		&wikiast.Section{Level: 2, Title: []wikiast.Node{wikiast.Plain(" Today ")}, Body: []wikiast.Node{
			wikiast.Wrap(wikiast.KindBold, wikiast.Plain("Now")),
		}},
	}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := convert.New(convert.WithLogger(log)).Convert(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestBuild(t *testing.T) {
	root := Build(samplePage(t), "Gophers")

	if root.Title != "Gophers" || root.Text != "Lead." {
		t.Errorf("unexpected root %q %q", root.Title, root.Text)
	}
	if root.Count() != 3 {
		t.Fatalf("expected 3 sections, got %d", root.Count())
	}
	history := root.Children[0]
	if history.Title != "History" || history.Level != 2 {
		t.Errorf("expected level 2 History, got %d %q", history.Level, history.Title)
	}
	if history.Text != "Old cite" {
		t.Errorf("expected reference read in place, got %q", history.Text)
	}
	if len(history.Children) != 1 || history.Children[0].Text != "Very old" {
		t.Errorf("expected nested Early section, got %+v", history.Children)
	}
	if history.SectionID == 0 {
		t.Error("expected section id to be set")
	}
	if root.Children[1].Title != "Today" {
		t.Errorf("expected trimmed title, got %q", root.Children[1].Title)
	}
}

func TestChunks_Breadcrumbs(t *testing.T) {
	root := Build(samplePage(t), "Gophers")
	chunks := Chunks(root, Config{ChunkSize: 100, ChunkOverlap: 10, MinChunk: 1})

	want := []struct {
		text string
		bc   string
	}{
		{"Lead.", ""},
		{"Old cite", "History"},
		{"Very old", "History/Early"},
		{"Now", "Today"},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		c := chunks[i]
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if c.Text != w.text || strings.Join(c.Breadcrumb, "/") != w.bc {
			t.Errorf("chunk %d: expected %q at %q, got %q at %q", i, w.text, w.bc, c.Text, strings.Join(c.Breadcrumb, "/"))
		}
	}
}

func TestChunks_LargeTextRequiresSplitting(t *testing.T) {
	// ~2700 words -> ~3590 tokens at 1.33 tokens/word.
	large := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	root := &Node{Title: "Large", Children: []*Node{{Title: "Big Section", Text: large}}}

	cfg := Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 10}
	chunks := Chunks(root, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		// Sentence boundaries allow slight overflow.
		if tokens := EstimateTokens(c.Text); tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
		if strings.Join(c.Breadcrumb, "/") != "Big Section" {
			t.Errorf("chunk %d: unexpected breadcrumb %v", i, c.Breadcrumb)
		}
	}
}

func TestChunks_BelowMinimumDropped(t *testing.T) {
	root := &Node{Text: "tiny"}
	if chunks := Chunks(root, Config{MinChunk: 5}); len(chunks) != 0 {
		t.Errorf("expected no chunks below minimum, got %d", len(chunks))
	}
}

func TestPack_Overlap(t *testing.T) {
	parts := []string{"one two three", "four five six", "seven eight nine"}
	// Each part is 3 words -> 3 tokens; target 5 forces one part per piece.
	got := pack(parts, " ", 5, 2)
	if len(got) != 3 {
		t.Fatalf("expected 3 pieces, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "three ") {
		t.Errorf("expected overlap from previous piece, got %q", got[1])
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("A b. C d! E f? G")
	want := []string{"A b.", "C d!", "E f?", "G"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 1},
		{"one two three", 3},
		{strings.Repeat("w ", 10), 13},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
