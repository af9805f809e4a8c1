package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser resolves titles of Markdown pages: frontmatter title
// first, then the first level-1 heading.
type MarkdownParser struct{}

func (p *MarkdownParser) Title(r io.Reader, filename string) (doctree.Title, error) {
	src, err := readText(r)
	if err != nil {
		return doctree.NoTitle, err
	}
	return TitleFromSource(src), nil
}

// TitleFromSource runs both stages over already-read content.
func TitleFromSource(src []byte) doctree.Title {
	body := src
	if hasFrontMatter(src) {
		title, rest := frontMatterTitle(src)
		if title.Ok() {
			return title
		}
		body = rest
	}
	return headingTitle(body)
}

// headingTitle returns the text of the first top-level line starting
// with "# ". goldmark decides where headings can occur, so such lines in
// fenced code do not count, but the text is taken from the line as
// written: "# Title ##" keeps its closing hashes. Raw HTML blocks are
// opaque to goldmark and are scanned line by line.
func headingTitle(src []byte) doctree.Title {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var lines []string
		switch n := n.(type) {
		case *ast.Heading:
			if n.Level != 1 || n.Lines().Len() == 0 {
				continue
			}
			lines = []string{lineAt(src, n.Lines().At(0).Start)}
		case *ast.HTMLBlock:
			lines = segmentLines(n.Lines(), src)
		default:
			continue
		}
		for _, line := range lines {
			if t, ok := h1Text(line); ok {
				return doctree.Found(t, doctree.SourceHeading)
			}
		}
	}
	return doctree.NoTitle
}

// h1Text reports the trimmed text of a "# " line. Setext headings and
// "#Title" do not qualify.
func h1Text(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimRight(line, "\r\n"), "# ")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}

// lineAt returns the whole source line containing offset.
func lineAt(src []byte, offset int) string {
	start := bytes.LastIndexByte(src[:offset], '\n') + 1
	end := len(src)
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	return string(src[start:end])
}

func segmentLines(segs *text.Segments, src []byte) []string {
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, string(seg.Value(src)))
	}
	return out
}
