package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a file stem or directory name into a display title:
// "getting-started" becomes "Getting Started". Only hyphens separate
// words. A name made of nothing but hyphens is returned as is.
func Humanize(name string) string {
	words := strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if words == "" {
		return name
	}
	return cases.Title(language.Und).String(words)
}

// SubtopicTitle derives a section title from a directory name, dropping
// the first recognised prefix: with prefixes ["python-"], "python-lists"
// becomes "Lists".
func SubtopicTitle(dirName string, prefixes []string) string {
	name := dirName
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
			name = rest
			break
		}
	}
	return Humanize(name)
}
