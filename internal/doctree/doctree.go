package doctree

import (
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocFile is a markdown file found under the docs root.
type DocFile struct {
	Name string // File name, e.g. "python.md"
	Dir  string // Parent directory relative to the docs root ("" for the root)
}

// Stem returns the file name without its extension. Topics are matched to
// subtopic directories by stem.
func (f DocFile) Stem() string {
	return strings.TrimSuffix(f.Name, path.Ext(f.Name))
}

// Ref returns the slash-separated page reference used in the nav.
func (f DocFile) Ref() string {
	if f.Dir == "" {
		return f.Name
	}
	return f.Dir + "/" + f.Name
}

// TitleSource records where a resolved title came from.
type TitleSource int

const (
	SourceNone TitleSource = iota
	SourceFrontMatter
	SourceHeading
)

func (s TitleSource) String() string {
	switch s {
	case SourceFrontMatter:
		return "frontmatter"
	case SourceHeading:
		return "heading"
	}
	return "none"
}

// Title is the result of title resolution: either a found title or none.
type Title struct {
	Text   string
	Source TitleSource
}

// NoTitle is the result when neither frontmatter nor a heading supplied one.
var NoTitle = Title{}

// Found returns a found title from the given source.
func Found(text string, src TitleSource) Title {
	return Title{Text: text, Source: src}
}

// Ok reports whether a title was found.
func (t Title) Ok() bool {
	return t.Source != SourceNone
}

// Or returns the title text, or fallback if no title was found.
func (t Title) Or(fallback string) string {
	if t.Ok() {
		return t.Text
	}
	return fallback
}

// Item is one navigation entry.
//
// A bare page reference (only valid inside a group) has Page set, no
// Title and no Children. A leaf has Title and Page. A group has Title and
// non-nil Children.
type Item struct {
	Title    string
	Page     string
	Children []Item
}

// Page returns a bare page reference.
func Page(ref string) Item {
	return Item{Page: ref}
}

// Leaf returns a titled page entry.
func Leaf(title, ref string) Item {
	return Item{Title: title, Page: ref}
}

// Group returns a titled section entry.
func Group(title string, children ...Item) Item {
	if children == nil {
		children = []Item{}
	}
	return Item{Title: title, Children: children}
}

// IsGroup reports whether the item holds nested entries.
func (it Item) IsGroup() bool {
	return it.Children != nil
}

// MarshalYAML renders the item the way MkDocs expects nav entries:
// a plain string, {title: page} or {title: [entries...]}. Titles go
// through the string encoder so YAML 1.1 booleans like "Yes" get quoted.
func (it Item) MarshalYAML() (any, error) {
	switch {
	case it.IsGroup():
		return map[string][]Item{it.Title: it.Children}, nil
	case it.Title == "":
		return it.Page, nil
	default:
		return map[string]string{it.Title: it.Page}, nil
	}
}

// Tree is the ordered navigation. The order is the displayed menu order.
type Tree []Item

// Node encodes the tree as a YAML sequence node.
func (t Tree) Node() (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode([]Item(t)); err != nil {
		return nil, err
	}
	return &n, nil
}

// Plain converts the tree into generic values ([]any, map[string]any,
// string). Useful for comparing against decoded YAML.
func (t Tree) Plain() []any {
	out := make([]any, 0, len(t))
	for _, it := range t {
		out = append(out, it.plain())
	}
	return out
}

func (it Item) plain() any {
	if !it.IsGroup() {
		if it.Title == "" {
			return it.Page
		}
		return map[string]any{it.Title: it.Page}
	}
	children := make([]any, 0, len(it.Children))
	for _, c := range it.Children {
		children = append(children, c.plain())
	}
	return map[string]any{it.Title: children}
}
