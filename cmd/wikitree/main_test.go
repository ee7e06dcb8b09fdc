package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_JSON(t *testing.T) {
	path := writeFile(t, "gophers.md", "## Habitat\n\nBurrows.\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, nil, &stdout, &stderr); code != ExitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	var page map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &page); err != nil {
		t.Fatalf("expected JSON output, got %v", err)
	}
	if sections, _ := page["sections"].([]any); len(sections) != 1 {
		t.Errorf("expected one section, got %v", page["sections"])
	}
}

func TestRun_PrettyOutlineToFile(t *testing.T) {
	path := writeFile(t, "gophers.md", "## Habitat\n\nBurrows.\n")
	out := filepath.Join(t.TempDir(), "out.json")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "outline", "-p", "-o", out, "--title", "Gophers", path}, nil, &stdout, &stderr)
	if code != ExitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"title\": \"Gophers\"") {
		t.Errorf("expected indented outline, got %s", data)
	}
}

func TestRun_StdinHTML(t *testing.T) {
	src := `{"kind":"page","title":"T","content":[{"kind":"italics","content":["hi"]}]}`
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "html", "-"}, strings.NewReader(src), &stdout, &stderr)
	if code != ExitSuccess {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "<i>hi</i>") {
		t.Errorf("expected italic text, got %s", stdout.String())
	}
}

func TestRun_ExitCodes(t *testing.T) {
	md := writeFile(t, "a.md", "x")
	bad := writeFile(t, "bad.json", `{"kind":`)
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no file", nil, ExitUsage},
		{"unknown flag", []string{"--nope", md}, ExitUsage},
		{"bad format", []string{"-f", "pdf", md}, ExitUsage},
		{"bad depth", []string{"--max-depth", "0", md}, ExitUsage},
		{"unsupported extension", []string{writeFile(t, "a.pptx", "x")}, ExitUsage},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.md")}, ExitIO},
		{"parse error", []string{bad}, ExitConvert},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if got := run(tt.args, nil, &stdout, &stderr); got != tt.want {
			t.Errorf("%s: expected exit %d, got %d (%s)", tt.name, tt.want, got, stderr.String())
		}
	}
}
