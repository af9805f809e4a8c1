package parser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docnav/internal/doctree"
)

// ErrInvalidEncoding is returned for files that are not valid UTF-8 text.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

// Parser extracts a display title from raw document bytes.
type Parser interface {
	Title(r io.Reader, filename string) (doctree.Title, error)
}

// SupportedExtensions lists the page extensions MkDocs builds.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsMarkdown checks if a file name has a markdown extension.
func IsMarkdown(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ResolveTitle reads name from fsys and extracts its title. Read and
// decoding failures are returned wrapped with the file name.
func ResolveTitle(fsys fs.FS, name string) (doctree.Title, error) {
	p, err := ForFile(name)
	if err != nil {
		return doctree.NoTitle, err
	}

	f, err := fsys.Open(name)
	if err != nil {
		return doctree.NoTitle, fmt.Errorf("read %s: %w", name, err)
	}
	defer f.Close()

	title, err := p.Title(f, name)
	if err != nil {
		return doctree.NoTitle, fmt.Errorf("read %s: %w", name, err)
	}
	return title, nil
}

func readText(r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(src) {
		return nil, ErrInvalidEncoding
	}
	return src, nil
}
