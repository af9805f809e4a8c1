package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/docnav/internal/doctree"
)

func TestMarkdownParser_FrontMatterTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "---\ntitle: Getting Started\n---\n# Ignored\n", "Getting Started"},
		{"double quoted", "---\ntitle: \"Quoted Title\"\n---\n", "Quoted Title"},
		{"single quoted", "---\ntitle: 'Single'\n---\n", "Single"},
		{"nested quotes", "---\ntitle: \"'Inner'\"\n---\n", "Inner"},
		{"other keys first", "---\nauthor: me\ntags: [a, b]\ntitle: Third\n---\nbody\n", "Third"},
		{"numeric", "---\ntitle: 2024\n---\n", "2024"},
		{"yaml keyword kept verbatim", "---\ntitle: Yes\n---\n", "Yes"},
		{"float kept verbatim", "---\ntitle: 1.10\n---\n", "1.10"},
		{"crlf", "---\r\ntitle: Windows\r\n---\r\n# Heading\r\n", "Windows"},
	}

	p := &MarkdownParser{}
	for _, tt := range tests {
		got, err := p.Title(strings.NewReader(tt.input), "doc.md")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got.Text != tt.want {
			t.Errorf("%s: expected title %q, got %q", tt.name, tt.want, got.Text)
		}
		if got.Source != doctree.SourceFrontMatter {
			t.Errorf("%s: expected source frontmatter, got %s", tt.name, got.Source)
		}
	}
}

func TestMarkdownParser_MalformedFrontMatterFallsBackToLineScan(t *testing.T) {
	input := "---\ntitle: Colons: Everywhere\n  bad: [indent\n---\n# Heading\n"

	got := TitleFromSource([]byte(input))
	if got.Text != "Colons: Everywhere" {
		t.Errorf("expected %q, got %q", "Colons: Everywhere", got.Text)
	}
	if got.Source != doctree.SourceFrontMatter {
		t.Errorf("expected frontmatter source, got %s", got.Source)
	}
}

func TestMarkdownParser_UnbalancedQuotesAreKept(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"---\ntitle: \"Unbalanced\n---\n", `"Unbalanced`},
		{"---\ntitle: Trailing'\n---\n", `Trailing'`},
	}
	for _, tt := range tests {
		got := TitleFromSource([]byte(tt.input))
		if got.Text != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.want, got.Text)
		}
	}
}

func TestMarkdownParser_HeadingFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"first h1", "# Python\n\nIntro.\n\n# Second\n", "Python"},
		{"h2 before h1", "## Overview\n\n# Real Title\n", "Real Title"},
		{"frontmatter without title", "---\nauthor: me\n---\n# From Heading\n", "From Heading"},
		{"empty frontmatter title", "---\ntitle: \"\"\n---\n# From Heading\n", "From Heading"},
		{"trailing spaces", "#   Spaced Out   \n", "Spaced Out"},
		{"inline markup kept", "# The `nav` Key\n", "The `nav` Key"},
		{"closing hashes kept", "# Title ##\n", "Title ##"},
		{"inside html block", "<div>\n# Inside html\n</div>\n", "Inside html"},
		{"after fenced code", "```\n# comment\n```\n\n# Real\n", "Real"},
	}

	for _, tt := range tests {
		got := TitleFromSource([]byte(tt.input))
		if got.Text != tt.want {
			t.Errorf("%s: expected title %q, got %q", tt.name, tt.want, got.Text)
		}
		if got.Source != doctree.SourceHeading {
			t.Errorf("%s: expected source heading, got %s", tt.name, got.Source)
		}
	}
}

func TestMarkdownParser_NoTitle(t *testing.T) {
	inputs := map[string]string{
		"empty":          "",
		"plain text":     "Just some plain text.\n\nAnother paragraph.",
		"only h2":        "## Section\n\ntext\n",
		"setext h1":      "Title\n=====\n\ntext\n",
		"fenced comment": "```bash\n# not a heading\n```\n",
		"no space":       "#NoSpace\n",
		"indented":       "   # Indented\n",
	}

	for name, input := range inputs {
		got := TitleFromSource([]byte(input))
		if got.Ok() {
			t.Errorf("%s: expected no title, got %q (%s)", name, got.Text, got.Source)
		}
	}
}

func TestResolveTitle_ReadsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"python.md": {Data: []byte("# Python\n")},
	}

	got, err := ResolveTitle(fsys, "python.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "Python" {
		t.Errorf("expected %q, got %q", "Python", got.Text)
	}
}

func TestResolveTitle_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.md": {Data: []byte{'#', ' ', 0xff, 0xfe}},
	}

	_, err := ResolveTitle(fsys, "bad.md")
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "bad.md") {
		t.Errorf("expected error to name the file, got %q", err)
	}

	if _, err := ResolveTitle(fsys, "missing.md"); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := ResolveTitle(fsys, "notes.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"index.md", true},
		{"notes.markdown", true},
		{"README.MD", true},
		{"robots.txt", false},
		{"CNAME", false},
	}
	for _, tt := range tests {
		if got := IsMarkdown(tt.filename); got != tt.want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
