// Package docstore loads cached publication documents from the on-disk
// document cache. It is the source of truth for everything downstream of it.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/observability"
)

// Lifecycle is the cache lifecycle boundary the build coordinator depends
// on. The filesystem store implements Load; invalidation is owned by the
// external cache maintenance tooling.
type Lifecycle interface {
	// Load reads every cached record, keyed by record id.
	Load(ctx context.Context) (map[string]domain.PublicationRecord, error)

	// Invalidate drops derived cache state so the next Load re-reads the source.
	Invalidate(ctx context.Context) error
}

// cachedDocument is the on-disk JSON shape of one cache entry.
type cachedDocument struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	URL           string            `json:"url"`
	PublishedDate string            `json:"publishedDate"`
	Abstract      string            `json:"abstract"`
	Sections      map[string]string `json:"sections"`
}

// dateLayouts are tried in order when parsing publishedDate. Records whose
// date matches none of them keep a nil PublishedDate rather than being dropped.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
}

// Store reads publication records from a directory of JSON documents, one
// file per publication.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates a filesystem-backed document store rooted at dir.
func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "docstore").Logger(),
	}
}

// Load reads all cached records. A missing cache directory fails with
// ErrCacheUnavailable; individual unreadable files are logged at warn level
// and skipped, since partial success is the normal case.
func (s *Store) Load(ctx context.Context) (map[string]domain.PublicationRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCacheUnavailable, s.dir, err)
	}

	records := make(map[string]domain.PublicationRecord)
	skipped := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		record, err := s.readDocument(path)
		if err != nil {
			skipped++
			s.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable cache entry")
			continue
		}
		records[record.ID] = record
	}

	s.logger.Info().
		Int("records", len(records)).
		Int("skipped", skipped).
		Str("dir", s.dir).
		Msg("document cache loaded")

	return records, nil
}

// Invalidate is a no-op for the filesystem store; the cache directory is
// re-read in full on every Load.
func (s *Store) Invalidate(_ context.Context) error {
	return nil
}

// readDocument parses one cache entry into a PublicationRecord.
func (s *Store) readDocument(path string) (domain.PublicationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PublicationRecord{}, domain.NewRecordError("", path, err)
	}

	var doc cachedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.PublicationRecord{}, domain.NewRecordError("", path, err)
	}

	id := doc.ID
	if id == "" {
		if doc.URL == "" {
			return domain.PublicationRecord{}, domain.NewRecordError("", path, fmt.Errorf("entry has neither id nor url"))
		}
		id = domain.DeriveRecordID(doc.URL)
	}

	record := domain.PublicationRecord{
		ID:       id,
		Title:    doc.Title,
		URL:      doc.URL,
		Abstract: doc.Abstract,
	}

	if doc.PublishedDate != "" {
		if ts, ok := parseDate(doc.PublishedDate); ok {
			record.PublishedDate = &ts
		} else {
			recordLogger := observability.WithRecordContext(s.logger, id, path)
			recordLogger.Warn().
				Str("published_date", doc.PublishedDate).
				Msg("unparsable publication date, keeping record without one")
		}
	}

	if len(doc.Sections) > 0 {
		record.Sections = make([]domain.Section, 0, len(doc.Sections))
		for name, text := range doc.Sections {
			record.Sections = append(record.Sections, domain.Section{
				Name: strings.ToLower(strings.TrimSpace(name)),
				Text: text,
			})
		}
		domain.SortSections(record.Sections)
	}

	return record, nil
}

// parseDate tries each supported layout in order.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
