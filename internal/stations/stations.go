// Package stations resolves user input to canonical station names.
package stations

import (
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const prefixRunes = 3

type Directory struct {
	names   []string
	byLower map[string]string
}

func New(names []string) *Directory {
	d := &Directory{
		names:   slices.Clone(names),
		byLower: make(map[string]string, len(names)),
	}
	for _, name := range d.names {
		d.byLower[strings.ToLower(name)] = name
	}
	return d
}

// Default returns the directory of the Belarusian railway stations.
func Default() *Directory {
	return New(names)
}

// Normalize trims and case-folds input to the canonical spelling of a known
// station. Unknown input comes back capitalized.
func (d *Directory) Normalize(input string) string {
	name, _ := d.Lookup(input)
	return name
}

// Lookup reports whether input names a known station.
func (d *Directory) Lookup(input string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	if name, ok := d.byLower[cleaned]; ok {
		return name, true
	}
	return capitalize(cleaned), false
}

// Suggest returns up to limit known names for mistyped input: names that
// share its first letters, then fuzzy matches by edit distance.
func (d *Directory) Suggest(input string, limit int) []string {
	cleaned := capitalize(strings.ToLower(strings.TrimSpace(input)))
	if cleaned == "" || limit <= 0 {
		return nil
	}

	suggestions := make([]string, 0, limit)
	seen := map[string]struct{}{}
	add := func(name string) bool {
		if _, ok := seen[name]; ok {
			return len(suggestions) < limit
		}
		seen[name] = struct{}{}
		suggestions = append(suggestions, name)
		return len(suggestions) < limit
	}

	prefix := firstRunes(cleaned, prefixRunes)
	for _, name := range d.names {
		if strings.HasPrefix(name, prefix) && !add(name) {
			return suggestions
		}
	}

	ranks := fuzzy.RankFindFold(cleaned, d.names)
	sort.Sort(ranks)
	for _, rank := range ranks {
		if !add(rank.Target) {
			break
		}
	}
	return suggestions
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func firstRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
