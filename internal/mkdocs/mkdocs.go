package mkdocs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dgallion1/docnav/internal/doctree"
	"gopkg.in/yaml.v3"
)

// NavKey is the top-level key holding the site navigation.
const NavKey = "nav"

var (
	ErrEmptyDocument = errors.New("config document is empty")
	ErrNotMapping    = errors.New("config document is not a mapping")
	ErrMultiDocument = errors.New("config holds more than one YAML document")
)

// Document is a parsed mkdocs.yml kept as a node tree, so key order,
// comments and custom tags such as !!python/name survive a rewrite.
type Document struct {
	path string
	mode fs.FileMode
	root yaml.Node
}

// Load reads and parses the config document at path. It never creates one.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	doc.path = path
	doc.mode = info.Mode().Perm()
	return doc, nil
}

// Parse parses a config document from memory.
func Parse(data []byte) (*Document, error) {
	doc := &Document{mode: 0o644}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc.root); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if doc.root.Kind == 0 || len(doc.root.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	// Save writes a single document, so later ones would be lost.
	var next yaml.Node
	switch err := dec.Decode(&next); {
	case err == nil:
		return nil, ErrMultiDocument
	case !errors.Is(err, io.EOF):
		return nil, err
	}
	if doc.mapping().Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return doc, nil
}

func (d *Document) mapping() *yaml.Node {
	return d.root.Content[0]
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	m := d.mapping()
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// SetNav replaces the nav value, appending the key if the document has
// none. Every other key is left as parsed.
func (d *Document) SetNav(tree doctree.Tree) error {
	nav, err := tree.Node()
	if err != nil {
		return fmt.Errorf("encode nav: %w", err)
	}

	m := d.mapping()
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == NavKey {
			m.Content[i+1] = nav
			return nil
		}
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: NavKey}
	m.Content = append(m.Content, key, nav)
	return nil
}

// Encode writes the document in block style with two-space indentation.
func (d *Document) Encode(w io.Writer) error {
	return encode(w, &d.root)
}

// Save rewrites the document in place. The new content goes to a
// temporary file in the same directory which is then renamed over the
// original, so a failed write leaves the old file intact.
func (d *Document) Save() error {
	if d.path == "" {
		return errors.New("save: document has no path")
	}

	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}

	dir, base := filepath.Split(d.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("save: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("save: write temp: %w", err)
	}
	if err := tmp.Chmod(d.mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("save: chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save: close temp: %w", err)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save: rename: %w", err)
	}
	return nil
}

// UpdateNav loads the config at path, replaces its nav and saves it.
func UpdateNav(path string, tree doctree.Tree) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	if err := doc.SetNav(tree); err != nil {
		return err
	}
	return doc.Save()
}

// EncodeNav writes just the "nav:" block, as it would appear in the
// config document.
func EncodeNav(w io.Writer, tree doctree.Tree) error {
	nav, err := tree.Node()
	if err != nil {
		return fmt.Errorf("encode nav: %w", err)
	}
	m := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: NavKey},
			nav,
		},
	}
	return encode(w, m)
}

func encode(w io.Writer, n *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
