// Package extract turns free text into deduplicated sets of significant
// keyword terms via stop-word filtering and scientific-term pattern matching.
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// minTermLength excludes short tokens; a keyword term must be longer than
// this many characters.
const minTermLength = 3

// scientificTermPattern matches a maximal run of letters, digits, and
// hyphens starting with a letter. Run over the original-case text, it
// recovers hyphenated and compound scientific terms that the whitespace
// tokenizer fragments differently.
var scientificTermPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9-]{3,}`)

// Extractor extracts keyword terms from publication text. The zero value is
// not usable; construct with New.
type Extractor struct {
	stop map[string]struct{}
}

// New creates an Extractor backed by the embedded stop-word set.
func New() *Extractor {
	return &Extractor{stop: stopWords}
}

// Extract returns the significant terms of text, deduplicated in
// first-appearance order. Membership is deterministic and independent of
// processing order; the ordering only supplies first-seen ranks to callers
// that need a tie-break.
//
// Two passes feed the result: a lowercase tokenizer that strips punctuation
// to whitespace and keeps tokens longer than three characters that are not
// stop words, and the scientific-term pattern over the original-case text,
// lowercased and filtered the same way.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	var terms []string
	seen := make(map[string]struct{})
	add := func(term string) {
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, tok := range tokenize(text) {
		if e.keep(tok) {
			add(tok)
		}
	}

	for _, match := range scientificTermPattern.FindAllString(text, -1) {
		term := strings.ToLower(match)
		if e.keep(term) {
			add(term)
		}
	}

	return terms
}

// Counts returns per-term occurrence counts over both passes, used for edge
// weights and trend rankings. A term's count is the number of tokenizer hits
// plus pattern hits that normalize to it.
func (e *Extractor) Counts(text string) map[string]int {
	if text == "" {
		return nil
	}

	counts := make(map[string]int)
	for _, tok := range tokenize(text) {
		if e.keep(tok) {
			counts[tok]++
		}
	}
	for _, match := range scientificTermPattern.FindAllString(text, -1) {
		term := strings.ToLower(match)
		if !e.keep(term) {
			continue
		}
		// The tokenizer already counted plain alphanumeric runs; only count
		// pattern hits it could not produce (hyphenated compounds).
		if strings.Contains(term, "-") {
			counts[term]++
		} else if counts[term] == 0 {
			counts[term]++
		}
	}
	return counts
}

// keep reports whether a normalized term qualifies as a keyword.
func (e *Extractor) keep(term string) bool {
	if len(term) <= minTermLength {
		return false
	}
	_, stopped := e.stop[term]
	return !stopped
}

// tokenize lowercases text, maps punctuation to whitespace, and splits.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
