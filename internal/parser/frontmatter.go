package parser

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/dgallion1/docnav/internal/doctree"
	"gopkg.in/yaml.v3"
)

const fmDelimiter = "---"

// yamlFormat decodes the block with yaml.v3 so the title can be read as a
// raw node: unquoted values like "Yes" or "1.0" stay as written.
var yamlFormat = frontmatter.NewFormat(fmDelimiter, fmDelimiter, yaml.Unmarshal)

type frontMatterEnvelope struct {
	Title yaml.Node `yaml:"title"`
}

// hasFrontMatter reports whether the first line is exactly "---".
func hasFrontMatter(src []byte) bool {
	line, _, _ := bytes.Cut(src, []byte("\n"))
	return strings.TrimRight(string(line), "\r") == fmDelimiter
}

// frontMatterTitle returns the frontmatter title and the body following
// the block. The structured parse runs first; when it fails or yields no
// title the block is scanned line by line, which also tolerates invalid
// YAML such as unquoted colons in the title.
func frontMatterTitle(src []byte) (doctree.Title, []byte) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta, yamlFormat)
	if err == nil {
		if title := titleFromNode(meta.Title); title.Ok() {
			return title, body
		}
	}
	return scanFrontMatter(src)
}

func titleFromNode(n yaml.Node) doctree.Title {
	if n.Kind != yaml.ScalarNode {
		return doctree.NoTitle
	}
	s := cleanTitle(n.Value)
	if s == "" {
		return doctree.NoTitle
	}
	return doctree.Found(s, doctree.SourceFrontMatter)
}

// scanFrontMatter walks the block between the delimiters looking for a
// line starting with "title:". It also returns whatever follows the
// closing delimiter, or all of src when the block is never closed.
func scanFrontMatter(src []byte) (doctree.Title, []byte) {
	lines := bytes.SplitAfter(src, []byte("\n"))

	title := doctree.NoTitle
	offset := len(lines[0])
	for _, raw := range lines[1:] {
		offset += len(raw)
		line := strings.TrimRight(string(raw), "\r\n")
		if strings.TrimSpace(line) == fmDelimiter {
			return title, src[offset:]
		}
		if !title.Ok() && strings.HasPrefix(line, "title:") {
			if s := cleanTitle(strings.TrimPrefix(line, "title:")); s != "" {
				title = doctree.Found(s, doctree.SourceFrontMatter)
			}
		}
	}
	return title, src
}

// cleanTitle trims whitespace and then one layer of matching quotes.
// Unbalanced quotes are part of the title.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return s
}
