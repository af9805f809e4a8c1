package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/dgallion1/docnav/internal/mkdocs"
	"github.com/dgallion1/docnav/internal/navtree"
)

// ErrDocsDirNotFound is returned when the docs root does not exist. The
// config document is not touched in that case.
var ErrDocsDirNotFound = errors.New("docs directory not found")

// Orchestrator runs the scan, build and write phases in order.
type Orchestrator struct {
	log *slog.Logger
	cfg config.Config
}

func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		log: log,
		cfg: cfg,
	}
}

// Run builds the navigation and writes it into the config document. It
// either writes the complete tree or nothing.
func (o *Orchestrator) Run(ctx context.Context) (doctree.Tree, error) {
	tree, err := o.build(ctx)
	if err != nil {
		return nil, err
	}

	// Phase 3: Write
	o.log.Info("updating config", "file", o.cfg.ConfigFile)
	if err := mkdocs.UpdateNav(o.cfg.ConfigFile, tree); err != nil {
		o.log.Error("update config failed", "file", o.cfg.ConfigFile, "error", err)
		return nil, fmt.Errorf("update %s: %w", o.cfg.ConfigFile, err)
	}

	o.log.Info("navigation updated", "file", o.cfg.ConfigFile, "items", len(tree))
	return tree, nil
}

// Preview builds the navigation and prints the nav block to w without
// touching the config document.
func (o *Orchestrator) Preview(ctx context.Context, w io.Writer) (doctree.Tree, error) {
	tree, err := o.build(ctx)
	if err != nil {
		return nil, err
	}
	if err := mkdocs.EncodeNav(w, tree); err != nil {
		return nil, fmt.Errorf("print nav: %w", err)
	}
	return tree, nil
}

func (o *Orchestrator) build(ctx context.Context) (doctree.Tree, error) {
	// Phase 1: Scan
	info, err := os.Stat(o.cfg.DocsDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		o.log.Error("docs directory not found", "dir", o.cfg.DocsDir)
		return nil, fmt.Errorf("%w: %s", ErrDocsDirNotFound, o.cfg.DocsDir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat docs directory: %w", err)
	}
	o.log.Info("scanning docs directory", "dir", o.cfg.DocsDir)

	// Phase 2: Build
	b := navtree.NewBuilder(os.DirFS(o.cfg.DocsDir), o.cfg.NavOptions(), o.log)
	tree, err := b.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("build nav: %w", err)
	}
	o.log.Info("generated navigation", "top_level_items", len(tree))
	return tree, nil
}
