// Package classify assigns coarse command categories to request texts. The
// tracking core treats the resulting labels as opaque; they only need to be
// stable so that per-category rates stay comparable over time.
package classify

import (
	"strings"

	"github.com/doeshing/alan-go/internal/ports"
)

// General is the fallback category when no keyword matches.
const General = "general"

// KeywordCategorizer maps request texts to categories by keyword lookup.
// First match wins, so the rules slice is ordered most-specific first.
type KeywordCategorizer struct {
	rules []rule
}

type rule struct {
	category string
	keywords []string
}

// NewKeywordCategorizer builds the categorizer with the built-in rule table.
func NewKeywordCategorizer() *KeywordCategorizer {
	return &KeywordCategorizer{rules: []rule{
		{"disk-usage", []string{"disk", "space", "storage", "usage", "size"}},
		{"package-management", []string{"install", "uninstall", "upgrade", "package", "brew", "apt", "pip", "npm"}},
		{"network", []string{"download", "upload", "ping", "ssh", "curl", "url", "port", "network", "ip"}},
		{"process-management", []string{"process", "kill", "running", "cpu", "memory", "service", "daemon"}},
		{"search", []string{"search", "find", "grep", "look", "locate", "contain"}},
		{"archive", []string{"zip", "unzip", "tar", "compress", "extract", "archive"}},
		{"permissions", []string{"permission", "chmod", "chown", "owner", "access", "executable"}},
		{"git", []string{"git", "commit", "branch", "merge", "clone", "repository", "repo"}},
		{"file-listing", []string{"list", "ls", "show files", "directory", "folder", "hidden"}},
		{"file-management", []string{"file", "copy", "move", "rename", "delete", "create", "touch", "mkdir"}},
	}}
}

// Categorize implements ports.Categorizer.
func (c *KeywordCategorizer) Categorize(requestText string) string {
	text := strings.ToLower(requestText)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}
	return General
}

var _ ports.Categorizer = (*KeywordCategorizer)(nil)
