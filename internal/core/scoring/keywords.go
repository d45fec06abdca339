package scoring

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// DefaultKeywords is the fixed quality vocabulary
// matching is case and width insensitive; per-keyword bonus is implicitly
// capped by the size of this list because matches are counted once each
func DefaultKeywords() []string {
	return []string{
		"helped",
		"improved",
		"mentored",
		"delivered",
		"collaborated",
		"unblocked",
		"initiative",
		"ownership",
		"leadership",
		"quality",
		"impact",
		"reliable",
	}
}

// foldPool holds reusable transformer chains, mirrors the normalizer used
// elsewhere in the codebase: NFKC, case fold, strip marks, width fold
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			width.Fold,
		)
	},
}

func fold(s string) string {
	if s == "" {
		return ""
	}
	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// keywordMatcher counts distinct vocabulary words present in folded text
type keywordMatcher struct {
	words []string
}

func newKeywordMatcher(vocab []string) *keywordMatcher {
	m := &keywordMatcher{words: make([]string, 0, len(vocab))}
	for _, w := range vocab {
		if f := fold(strings.TrimSpace(w)); f != "" {
			m.words = append(m.words, f)
		}
	}
	return m
}

// countDistinct reports how many vocabulary entries occur in text at least once
func (m *keywordMatcher) countDistinct(text string) int {
	if text == "" || len(m.words) == 0 {
		return 0
	}
	folded := fold(text)
	n := 0
	for _, w := range m.words {
		if strings.Contains(folded, w) {
			n++
		}
	}
	return n
}
