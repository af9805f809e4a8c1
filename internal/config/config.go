package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgallion1/docnav/internal/navtree"
)

type Config struct {
	// Inputs, relative to the working directory
	DocsDir    string
	ConfigFile string

	// Nav layout
	IndexFile        string
	HomeTitle        string
	Exclude          []string
	SubtopicPrefixes []string

	// Logging
	LogLevel  slog.Level
	LogFormat string
}

func Load() Config {
	def := navtree.DefaultOptions()

	cfg := Config{
		DocsDir:    envOr("DOCNAV_DOCS_DIR", "docs"),
		ConfigFile: envOr("DOCNAV_CONFIG_FILE", "mkdocs.yml"),

		IndexFile:        envOr("DOCNAV_INDEX_FILE", def.IndexFile),
		HomeTitle:        envOr("DOCNAV_HOME_TITLE", def.HomeTitle),
		Exclude:          appendNew(def.Exclude, envList("DOCNAV_EXCLUDE", nil)...),
		SubtopicPrefixes: envList("DOCNAV_SUBTOPIC_PREFIXES", def.SubtopicPrefixes),

		LogLevel:  envLevel("DOCNAV_LOG_LEVEL", slog.LevelInfo),
		LogFormat: strings.ToLower(envOr("DOCNAV_LOG_FORMAT", "text")),
	}

	return cfg
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DocsDir) == "" {
		return fmt.Errorf("DOCNAV_DOCS_DIR must not be empty")
	}
	if strings.TrimSpace(c.ConfigFile) == "" {
		return fmt.Errorf("DOCNAV_CONFIG_FILE must not be empty")
	}
	if strings.ContainsAny(c.IndexFile, `/\`) {
		return fmt.Errorf("DOCNAV_INDEX_FILE must be a file name, got %q", c.IndexFile)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("DOCNAV_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// NavOptions returns the tree builder settings.
func (c Config) NavOptions() navtree.Options {
	return navtree.Options{
		IndexFile:        c.IndexFile,
		HomeTitle:        c.HomeTitle,
		Exclude:          c.Exclude,
		SubtopicPrefixes: c.SubtopicPrefixes,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList reads a comma-separated list. An explicitly empty value
// ("DOCNAV_SUBTOPIC_PREFIXES=") clears the default.
func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// appendNew returns base followed by the items it does not already hold.
func appendNew(base []string, items ...string) []string {
	out := slices.Clone(base)
	for _, item := range items {
		if !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
