// Package skills canonicalizes skill tokens so that requirement and candidate
// skill lists can be compared as sets.
package skills

import (
	"sort"
	"strings"
)

// aliases maps common skill spellings to their canonical lowercase token
var aliases = map[string]string{
	"py":         "python",
	"python3":    "python",
	"js":         "javascript",
	"es6":        "javascript",
	"ecmascript": "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"go lang":    "go",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"node.js":    "node",
	"nodejs":     "node",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"postgres":   "postgresql",
	"psql":       "postgresql",
	"mongo":      "mongodb",
	"tf":         "terraform",
	"gcp":        "google cloud",
}

// Normalize returns the canonical token for a skill name: trimmed, case-folded,
// inner whitespace collapsed and known aliases resolved. Empty input yields "".
func Normalize(skill string) string {
	token := strings.ToLower(strings.Join(strings.Fields(skill), " "))
	if token == "" {
		return ""
	}
	if canonical, ok := aliases[token]; ok {
		return canonical
	}
	return token
}

// Set is a set of normalized skill tokens
type Set map[string]struct{}

// NewSet normalizes every skill and collects the non-empty tokens
func NewSet(skills []string) Set {
	set := make(Set, len(skills))
	for _, s := range skills {
		if token := Normalize(s); token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

// Has reports whether the normalized form of skill is in the set
func (s Set) Has(skill string) bool {
	_, ok := s[Normalize(skill)]
	return ok
}

// Sorted returns the tokens in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for token := range s {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// Unique normalizes skills and drops duplicates, keeping first-seen order.
func Unique(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		token := Normalize(s)
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}
	return out
}
