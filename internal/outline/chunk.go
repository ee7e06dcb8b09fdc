package outline

import "strings"

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = d.ChunkOverlap
	}
	if c.MinChunk <= 0 {
		c.MinChunk = d.MinChunk
	}
	return c
}

// Chunk is a sized text segment with its section path.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
	SectionID  int      `json:"section_id,omitempty"`
}

// Chunks splits the text of every outline node into chunks of about
// cfg.ChunkSize tokens. The root title is not part of any breadcrumb.
func Chunks(root *Node, cfg Config) []Chunk {
	cfg = cfg.withDefaults()

	var chunks []Chunk
	root.Walk(func(n *Node, parents []string) {
		if n.Text == "" {
			return
		}
		var bc []string
		if n != root {
			if len(parents) > 0 && root.Title != "" {
				parents = parents[1:]
			}
			bc = append(append(bc, parents...), n.Title)
		}

		parts := []string{n.Text}
		if EstimateTokens(n.Text) > cfg.ChunkSize {
			parts = splitText(n.Text, cfg.ChunkSize, cfg.ChunkOverlap)
		}
		for _, part := range parts {
			if EstimateTokens(part) < cfg.MinChunk {
				continue
			}
			chunks = append(chunks, Chunk{
				Text:       part,
				Index:      len(chunks),
				Breadcrumb: bc,
				SectionID:  n.SectionID,
			})
		}
	})
	return chunks
}

// splitText breaks text into pieces of about target tokens. Paragraphs are
// packed together; a paragraph over the target is packed by sentence.
func splitText(text string, target, overlap int) []string {
	var result, pending []string
	flush := func() {
		if len(pending) > 0 {
			result = append(result, pack(pending, "\n\n", target, overlap)...)
			pending = nil
		}
	}

	for _, para := range splitParagraphs(text) {
		if EstimateTokens(para) > target {
			flush()
			result = append(result, pack(splitSentences(para), " ", target, overlap)...)
			continue
		}
		pending = append(pending, para)
	}
	flush()
	return result
}

// pack joins parts with sep into pieces of at most about target tokens.
// Each new piece starts with the last overlap tokens of the previous one.
func pack(parts []string, sep string, target, overlap int) []string {
	var result []string
	var cur strings.Builder
	tokens := 0

	for _, part := range parts {
		n := EstimateTokens(part)
		if tokens > 0 && tokens+n > target {
			result = append(result, cur.String())
			tail := overlapText(cur.String(), overlap)
			cur.Reset()
			cur.WriteString(tail)
			tokens = EstimateTokens(tail)
		}
		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(part)
		tokens += n
	}
	if tokens > 0 {
		result = append(result, cur.String())
	}
	return result
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences splits after '.', '!' or '?' followed by a space.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' {
				out = append(out, strings.TrimSpace(text[start:i+1]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// overlapText returns about the last n tokens of text.
func overlapText(text string, n int) string {
	words := strings.Fields(text)
	keep := int(float64(n) / tokensPerWord)
	if keep <= 0 || len(words) <= keep {
		return ""
	}
	return strings.Join(words[len(words)-keep:], " ")
}
