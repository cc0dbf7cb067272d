// Package domain provides domain models and business logic for the Publication Graph Service.
package domain

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Section is a named subdivision of a publication's full text, used for
// provenance tagging and full-text search scoping.
type Section struct {
	// Name is the section heading, normalized to lowercase (e.g., "introduction").
	Name string

	// Text is the section body.
	Text string
}

// PublicationRecord is one cached publication document. Records are created
// once by the document store loader and are immutable for the lifetime of a
// process; a cache rebuild replaces them wholesale.
type PublicationRecord struct {
	// ID is the stable record identifier, derived from the source URL when
	// the cache entry carries no explicit id.
	ID string

	// Title is the publication title.
	Title string

	// URL is the canonical source URL.
	URL string

	// PublishedDate is the publication date. Nil when the cached record has
	// no date or the date failed to parse.
	PublishedDate *time.Time

	// Abstract is the abstract text. May be empty.
	Abstract string

	// Sections holds the named full-text sections in canonical order.
	// Empty when full text was never fetched.
	Sections []Section
}

// Year returns the publication year, or 0 when no date is known.
func (r *PublicationRecord) Year() int {
	if r.PublishedDate == nil {
		return 0
	}
	return r.PublishedDate.Year()
}

// HasFullText reports whether any section text is available.
func (r *PublicationRecord) HasFullText() bool {
	return len(r.Sections) > 0
}

// Canonical section ranks. Sections not listed here sort after the known
// ones, alphabetically, so extraction order is stable for identical input.
var sectionRank = map[string]int{
	"introduction": 0,
	"methods":      1,
	"results":      2,
	"discussion":   3,
	"conclusion":   4,
}

// SortSections orders sections by canonical rank, then by name.
func SortSections(sections []Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		ri, iKnown := sectionRank[sections[i].Name]
		rj, jKnown := sectionRank[sections[j].Name]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return sections[i].Name < sections[j].Name
		}
	})
}

// NormalizeKeyword normalizes a keyword string by:
// - Converting to lowercase
// - Trimming leading/trailing whitespace
// - Collapsing multiple whitespace characters into a single space
func NormalizeKeyword(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// DeriveRecordID computes a stable record id from the source URL for cache
// entries that carry no explicit id.
func DeriveRecordID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("pub-%x", sum[:6])
}
