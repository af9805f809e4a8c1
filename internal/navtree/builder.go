package navtree

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/dgallion1/docnav/internal/parser"
)

// Options controls which files are considered and how entries are titled.
type Options struct {
	IndexFile        string   // Index page of the root and of each section
	HomeTitle        string   // Title of the first nav entry
	Exclude          []string // Root files that are never topics
	SubtopicPrefixes []string // Prefixes dropped from section titles
}

// DefaultOptions returns the MkDocs conventions.
func DefaultOptions() Options {
	return Options{
		IndexFile:        "index.md",
		HomeTitle:        "Home",
		Exclude:          []string{"CNAME", "robots.txt", "llms.txt"},
		SubtopicPrefixes: []string{"python-", "py-"},
	}
}

// TitleFunc resolves the title of a page inside fsys.
type TitleFunc func(fsys fs.FS, name string) (doctree.Title, error)

// Builder turns a docs directory into a navigation tree.
type Builder struct {
	fsys    fs.FS
	opts    Options
	log     *slog.Logger
	titleOf TitleFunc
}

// NewBuilder creates a builder over fsys, which must be rooted at the docs
// directory.
func NewBuilder(fsys fs.FS, opts Options, log *slog.Logger) *Builder {
	def := DefaultOptions()
	if opts.IndexFile == "" {
		opts.IndexFile = def.IndexFile
	}
	if opts.HomeTitle == "" {
		opts.HomeTitle = def.HomeTitle
	}
	return &Builder{
		fsys:    fsys,
		opts:    opts,
		log:     log,
		titleOf: parser.ResolveTitle,
	}
}

// Build scans the root and returns the navigation. The first entry is
// always the home page; topics follow in file name order, then sections
// that no topic claimed, in directory name order.
func (b *Builder) Build(ctx context.Context) (doctree.Tree, error) {
	topics, dirs, err := b.scanRoot()
	if err != nil {
		return nil, err
	}
	b.log.Debug("scanned docs root", "topics", len(topics), "dirs", len(dirs))

	tree := doctree.Tree{doctree.Leaf(b.opts.HomeTitle, b.opts.IndexFile)}
	claimedBy := make(map[string]string)

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		title, err := b.topicTitle(topic)
		if err != nil {
			return nil, err
		}

		related := relatedDirs(dirs, topic.Stem())
		if len(related) == 0 {
			tree = append(tree, doctree.Leaf(title, topic.Name))
			continue
		}

		children := []doctree.Item{doctree.Page(topic.Name)}
		for _, dir := range related {
			if owner, ok := claimedBy[dir]; ok {
				// Overlapping stems (python.md and python-basics.md both
				// match python-basics-advanced/) have no defined owner.
				b.log.Warn("section matches more than one topic",
					"dir", dir, "first", owner, "also", topic.Name)
			} else {
				claimedBy[dir] = topic.Name
			}

			pages, err := b.sectionPages(dir)
			if err != nil {
				return nil, err
			}
			if len(pages) == 0 {
				b.log.Debug("skipping section without pages", "dir", dir)
				continue
			}
			children = append(children, doctree.Group(b.sectionTitle(dir), pages...))
		}
		tree = append(tree, doctree.Group(title, children...))
	}

	for _, dir := range dirs {
		if _, ok := claimedBy[dir]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pages, err := b.sectionPages(dir)
		if err != nil {
			return nil, err
		}
		if len(pages) == 0 {
			b.log.Debug("skipping section without pages", "dir", dir)
			continue
		}
		tree = append(tree, doctree.Group(b.sectionTitle(dir), pages...))
	}

	return tree, nil
}

func (b *Builder) topicTitle(topic doctree.DocFile) (string, error) {
	title, err := b.titleOf(b.fsys, topic.Ref())
	if err != nil {
		b.log.Error("resolve title", "file", topic.Ref(), "error", err)
		return "", err
	}

	resolved := title.Or(parser.Humanize(topic.Stem()))
	b.log.Debug("resolved title", "file", topic.Ref(), "title", resolved, "source", title.Source.String())
	return resolved, nil
}

func (b *Builder) sectionTitle(dir string) string {
	return parser.SubtopicTitle(dir, b.opts.SubtopicPrefixes)
}

// scanRoot lists candidate topic files and subdirectories, both sorted.
func (b *Builder) scanRoot() ([]doctree.DocFile, []string, error) {
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("list docs root: %w", err)
	}

	skip := make(map[string]bool, len(b.opts.Exclude)+1)
	skip[b.opts.IndexFile] = true
	for _, name := range b.opts.Exclude {
		skip[name] = true
	}

	var topics []doctree.DocFile
	var dirs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		isDir, isFile, err := b.kind(e, name)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case isDir:
			dirs = append(dirs, name)
		case isFile && parser.IsMarkdown(name) && !skip[name]:
			topics = append(topics, doctree.DocFile{Name: name})
		}
	}

	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	sort.Strings(dirs)
	return topics, dirs, nil
}

// sectionPages lists the markdown pages of dir: the index page first if
// present, then the rest by file name.
func (b *Builder) sectionPages(dir string) ([]doctree.Item, error) {
	entries, err := fs.ReadDir(b.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var names []string
	hasIndex := false
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !parser.IsMarkdown(name) {
			continue
		}
		_, isFile, err := b.kind(e, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if !isFile {
			continue
		}
		if name == b.opts.IndexFile {
			hasIndex = true
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pages := make([]doctree.Item, 0, len(names)+1)
	if hasIndex {
		pages = append(pages, doctree.Page(doctree.DocFile{Name: b.opts.IndexFile, Dir: dir}.Ref()))
	}
	for _, name := range names {
		pages = append(pages, doctree.Page(doctree.DocFile{Name: name, Dir: dir}.Ref()))
	}
	return pages, nil
}

// kind reports whether an entry is a directory or a regular file,
// following symlinks.
func (b *Builder) kind(e fs.DirEntry, name string) (isDir, isFile bool, err error) {
	mode := e.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := fs.Stat(b.fsys, name)
		if err != nil {
			// Dangling links are not pages.
			b.log.Debug("ignoring unresolvable link", "path", name, "error", err)
			return false, false, nil
		}
		mode = info.Mode()
	}
	return mode.IsDir(), mode.IsRegular(), nil
}

// relatedDirs returns the directories named "<stem>-...". dirs is sorted,
// so the result is too.
func relatedDirs(dirs []string, stem string) []string {
	prefix := stem + "-"
	var out []string
	for _, d := range dirs {
		if strings.HasPrefix(d, prefix) {
			out = append(out, d)
		}
	}
	return out
}
