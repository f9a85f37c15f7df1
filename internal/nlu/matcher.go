package nlu

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ConceptFlags records which concepts fired for one utterance. Computed
// fresh per utterance, never cached across turns.
type ConceptFlags map[Concept]bool

// Has reports whether the concept fired.
func (f ConceptFlags) Has(c Concept) bool { return f[c] }

// foldTransformer decomposes to NFD, strips combining marks and
// recomposes, so "día" and "dia" reduce to the same bytes.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases the text and removes accents. Users routinely omit
// accents ("proximas", "dolares"), so all matching runs on folded text.
func Fold(s string) string {
	lowered := strings.ToLower(s)
	folded, _, err := transform.String(foldTransformer, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// Matcher compiles the glossary into one word-boundary pattern per
// concept. Immutable after construction, safe for concurrent use.
type Matcher struct {
	patterns map[Concept]*regexp.Regexp
}

// NewMatcher compiles every glossary entry. Synonyms are folded before
// compilation so the pattern set matches folded utterances.
func NewMatcher(g Glossary) (*Matcher, error) {
	patterns := make(map[Concept]*regexp.Regexp, len(g))
	for concept, synonyms := range g {
		if len(synonyms) == 0 {
			continue
		}
		alternates := make([]string, 0, len(synonyms))
		for _, s := range synonyms {
			alternates = append(alternates, regexp.QuoteMeta(Fold(s)))
		}
		// Longest alternate first so "por vencer" wins over "vence"
		// inside the same group.
		sort.Slice(alternates, func(i, j int) bool { return len(alternates[i]) > len(alternates[j]) })

		re, err := regexp.Compile(`\b(?:` + strings.Join(alternates, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile concept %q: %w", concept, err)
		}
		patterns[concept] = re
	}
	return &Matcher{patterns: patterns}, nil
}

// Flags reports, for every concept, whether any of its synonyms appears
// in the utterance as a whole word or phrase. Empty or non-Spanish
// input simply yields all-false flags.
func (m *Matcher) Flags(utterance string) ConceptFlags {
	flags := make(ConceptFlags, len(m.patterns))
	folded := Fold(utterance)
	for concept, re := range m.patterns {
		flags[concept] = re.MatchString(folded)
	}
	return flags
}
