package query

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/graph"
	"github.com/spacebio/publication-graph-service/internal/observability"
)

// SearchMode selects how a search executes. The mode is always explicit;
// the engine never silently degrades a full-text search to keyword matching
// when section text is missing.
type SearchMode string

const (
	// ModeKeyword matches query tokens against keyword node names.
	ModeKeyword SearchMode = "keyword"

	// ModeFulltext scans section texts for the literal query.
	ModeFulltext SearchMode = "fulltext"
)

// SearchOptions control one search operation.
type SearchOptions struct {
	// Mode selects keyword or full-text search. Defaults to ModeKeyword.
	Mode SearchMode

	// Exact requires whole-token equality instead of substring containment.
	// Keyword mode only.
	Exact bool

	// Section restricts full-text matching to one section name.
	Section string
}

// KeywordMatch is one keyword-mode result: a publication annotated with the
// keyword that matched.
type KeywordMatch struct {
	Title   string
	URL     string
	Keyword string
}

// Snippet is a short context window around one full-text match.
type Snippet struct {
	Section string
	Text    string
}

// FulltextMatch is one full-text-mode result.
type FulltextMatch struct {
	Title            string
	URL              string
	MatchingSections []string
	Snippets         []Snippet
}

// SearchResult carries the results of one search. Exactly one of the two
// slices is populated, selected by Mode.
type SearchResult struct {
	Mode     SearchMode
	Keyword  []KeywordMatch
	Fulltext []FulltextMatch
}

// Search executes a keyword or full-text search against the current
// snapshot. An empty query is a validation error.
func (e *Engine) Search(query string, opts SearchOptions) (*SearchResult, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "query must not be empty")
	}
	if opts.Mode == "" {
		opts.Mode = ModeKeyword
	}

	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("search", "not_ready")
		return nil, err
	}

	var result *SearchResult
	switch opts.Mode {
	case ModeKeyword:
		result = &SearchResult{Mode: ModeKeyword, Keyword: e.searchKeywords(snap, query, opts.Exact)}
	case ModeFulltext:
		result = &SearchResult{Mode: ModeFulltext, Fulltext: e.searchFulltext(snap, query, opts.Section)}
	default:
		return nil, domain.NewValidationError("type", "must be \"keyword\" or \"fulltext\"")
	}

	queryLogger := observability.WithQueryContext(e.logger, "search", query)
	queryLogger.Debug().
		Str("mode", string(result.Mode)).
		Int("keyword_matches", len(result.Keyword)).
		Int("fulltext_matches", len(result.Fulltext)).
		Msg("search executed")

	e.metrics.RecordQuery("search", time.Since(start).Seconds())
	return result, nil
}

// searchKeywords matches query tokens against keyword node names. Matched
// keywords are walked in sorted order, their publications in ascending id
// order, so identical queries rank identically.
func (e *Engine) searchKeywords(snap *graph.Snapshot, query string, exact bool) []KeywordMatch {
	tokens := strings.Fields(strings.ToLower(query))

	matched := make([]string, 0)
	for term := range snap.KeywordPublications {
		if keywordMatches(term, tokens, exact) {
			matched = append(matched, term)
		}
	}
	sort.Strings(matched)

	matches := make([]KeywordMatch, 0)
	for _, term := range matched {
		for _, id := range snap.KeywordPublications[term] {
			record := snap.Records[id]
			matches = append(matches, KeywordMatch{
				Title:   record.Title,
				URL:     record.URL,
				Keyword: term,
			})
		}
	}
	return matches
}

// keywordMatches reports whether a keyword term matches any query token.
// Exact mode requires whole-token equality: "micro" must not match
// "microgravity".
func keywordMatches(term string, tokens []string, exact bool) bool {
	for _, tok := range tokens {
		if exact {
			if term == tok {
				return true
			}
			continue
		}
		if strings.Contains(term, tok) {
			return true
		}
	}
	return false
}

// searchFulltext scans section texts for the literal query,
// case-insensitively. Matching and window cutting both work in runes, so
// offsets stay aligned with the original text and multi-byte characters are
// never split. Publications without full text simply never match; the caller
// can tell from the result's Mode that no fallback happened.
func (e *Engine) searchFulltext(snap *graph.Snapshot, query, sectionFilter string) []FulltextMatch {
	needle := []rune(strings.ToLower(query))
	sectionFilter = strings.ToLower(strings.TrimSpace(sectionFilter))

	pubIDs := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		pubIDs = append(pubIDs, id)
	}
	sort.Strings(pubIDs)

	matches := make([]FulltextMatch, 0)
	for _, id := range pubIDs {
		record := snap.Records[id]

		var sections []string
		var snippets []Snippet
		for _, section := range searchableSections(record) {
			if sectionFilter != "" && section.Name != sectionFilter {
				continue
			}
			text := []rune(section.Text)
			idx := indexFold(text, needle)
			if idx < 0 {
				continue
			}
			sections = append(sections, section.Name)
			if len(snippets) < e.cfg.MaxSnippets {
				snippets = append(snippets, Snippet{
					Section: section.Name,
					Text:    contextWindow(text, idx, len(needle), e.cfg.SnippetWindow),
				})
			}
		}

		if len(sections) > 0 {
			matches = append(matches, FulltextMatch{
				Title:            record.Title,
				URL:              record.URL,
				MatchingSections: sections,
				Snippets:         snippets,
			})
		}
	}
	return matches
}

// searchableSections exposes the abstract as a section alongside the full
// text, matching the provenance tagging used at build time.
func searchableSections(record domain.PublicationRecord) []domain.Section {
	sections := make([]domain.Section, 0, len(record.Sections)+1)
	if record.Abstract != "" {
		sections = append(sections, domain.Section{Name: "abstract", Text: record.Abstract})
	}
	return append(sections, record.Sections...)
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of needle in text, or -1. The needle must already be lowercased.
func indexFold(text, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(text) {
		return -1
	}
	for i := 0; i+len(needle) <= len(text); i++ {
		j := 0
		for ; j < len(needle); j++ {
			if unicode.ToLower(text[i+j]) != needle[j] {
				break
			}
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// contextWindow cuts a fixed-width rune window centered on the match, with
// ellipses marking truncated sides.
func contextWindow(text []rune, matchStart, matchLen, window int) string {
	half := window / 2
	start := matchStart - half
	if start < 0 {
		start = 0
	}
	end := matchStart + matchLen + half
	if end > len(text) {
		end = len(text)
	}

	out := string(text[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}
