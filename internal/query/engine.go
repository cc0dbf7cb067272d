// Package query implements the read-only operations over one immutable
// graph snapshot: search, similarity, publications by keyword, clusters,
// and trend aggregation. The engine never mutates graph state.
package query

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/graph"
	"github.com/spacebio/publication-graph-service/internal/observability"
)

// SnapshotProvider hands out the snapshot a request operates on. Every
// operation binds exactly one snapshot up front, so a rebuild finishing
// mid-request cannot mix generations in one result.
type SnapshotProvider interface {
	Current() (*graph.Snapshot, error)
}

// Config tunes the query engine.
type Config struct {
	// TopKeywords is the number of keywords reported by Trends.
	TopKeywords int

	// SnippetWindow is the character window around a full-text match.
	SnippetWindow int

	// MaxSnippets caps the snippets returned per publication.
	MaxSnippets int
}

// DefaultConfig returns the default query tuning.
func DefaultConfig() Config {
	return Config{
		TopKeywords:   10,
		SnippetWindow: 100,
		MaxSnippets:   3,
	}
}

// Engine serves queries against the current snapshot.
type Engine struct {
	cfg      Config
	provider SnapshotProvider
	metrics  *observability.Metrics
	logger   zerolog.Logger

	// now is injectable so trend windows are testable.
	now func() time.Time
}

// NewEngine creates a query engine.
func NewEngine(cfg Config, provider SnapshotProvider, metrics *observability.Metrics, logger zerolog.Logger) *Engine {
	if cfg.TopKeywords < 1 {
		cfg.TopKeywords = DefaultConfig().TopKeywords
	}
	if cfg.SnippetWindow < 1 {
		cfg.SnippetWindow = DefaultConfig().SnippetWindow
	}
	if cfg.MaxSnippets < 1 {
		cfg.MaxSnippets = DefaultConfig().MaxSnippets
	}
	return &Engine{
		cfg:      cfg,
		provider: provider,
		metrics:  metrics,
		logger:   logger.With().Str("component", "query-engine").Logger(),
		now:      time.Now,
	}
}

// SimilarEntry is one entry of a similarity ranking.
type SimilarEntry struct {
	Title       string
	SharedCount int
}

// Similar ranks the publications sharing keywords with the given one,
// descending by shared-keyword count, ties broken by publication id.
func (e *Engine) Similar(pubID string) ([]SimilarEntry, error) {
	start := time.Now()
	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("similar", "not_ready")
		return nil, err
	}

	if _, ok := snap.PublicationKeywords[pubID]; !ok {
		e.metrics.RecordQueryFailed("similar", "not_found")
		return nil, domain.NewNotFoundError("publication", pubID)
	}

	shared := snap.SharedCounts[pubID]
	others := make([]string, 0, len(shared))
	for other := range shared {
		others = append(others, other)
	}
	sort.Slice(others, func(i, j int) bool {
		if shared[others[i]] != shared[others[j]] {
			return shared[others[i]] > shared[others[j]]
		}
		return others[i] < others[j]
	})

	entries := make([]SimilarEntry, len(others))
	for i, other := range others {
		entries[i] = SimilarEntry{
			Title:       snap.Records[other].Title,
			SharedCount: shared[other],
		}
	}

	e.metrics.RecordQuery("similar", time.Since(start).Seconds())
	return entries, nil
}

// PublicationSummary is the record subset returned by keyword lookups.
type PublicationSummary struct {
	ID            string
	Title         string
	URL           string
	PublishedDate string
}

// PublicationsByKeyword lists the publications linked to a keyword node.
// The keyword may be given as a node id ("kw:term") or a bare term.
func (e *Engine) PublicationsByKeyword(keyword string) ([]PublicationSummary, error) {
	start := time.Now()
	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("publications_by_keyword", "not_ready")
		return nil, err
	}

	term := domain.NormalizeKeyword(keyword)
	if len(term) > len(domain.KeywordNodeIDPrefix) && term[:len(domain.KeywordNodeIDPrefix)] == domain.KeywordNodeIDPrefix {
		term = term[len(domain.KeywordNodeIDPrefix):]
	}

	pubs, ok := snap.KeywordPublications[term]
	if !ok {
		e.metrics.RecordQueryFailed("publications_by_keyword", "not_found")
		return nil, domain.NewNotFoundError("keyword", keyword)
	}

	summaries := make([]PublicationSummary, len(pubs))
	for i, id := range pubs {
		record := snap.Records[id]
		summaries[i] = PublicationSummary{
			ID:    id,
			Title: record.Title,
			URL:   record.URL,
		}
		if record.PublishedDate != nil {
			summaries[i].PublishedDate = record.PublishedDate.Format("2006-01-02")
		}
	}

	e.metrics.RecordQuery("publications_by_keyword", time.Since(start).Seconds())
	return summaries, nil
}

// Clusters returns the topic clusters of the current snapshot.
func (e *Engine) Clusters() ([]domain.Cluster, error) {
	start := time.Now()
	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("clusters", "not_ready")
		return nil, err
	}

	clusters := snap.Clusters()
	e.metrics.RecordQuery("clusters", time.Since(start).Seconds())
	return clusters, nil
}

// ClusterSummary is a cluster with member ids resolved to titles.
type ClusterSummary struct {
	ID     int
	Size   int
	Titles []string
	Themes []string
}

// ClusterSummaries returns the topic clusters with member titles resolved
// against the same snapshot the clusters were computed from.
func (e *Engine) ClusterSummaries() ([]ClusterSummary, error) {
	start := time.Now()
	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("clusters", "not_ready")
		return nil, err
	}

	clusters := snap.Clusters()
	summaries := make([]ClusterSummary, len(clusters))
	for i, c := range clusters {
		titles := make([]string, len(c.Members))
		for j, id := range c.Members {
			titles[j] = snap.Records[id].Title
		}
		summaries[i] = ClusterSummary{
			ID:     c.ID,
			Size:   c.Size(),
			Titles: titles,
			Themes: c.Themes,
		}
	}

	e.metrics.RecordQuery("clusters", time.Since(start).Seconds())
	return summaries, nil
}

// Graph returns the node and edge lists of the current snapshot for export.
func (e *Engine) Graph() ([]domain.Node, []domain.Edge, error) {
	start := time.Now()
	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("graph", "not_ready")
		return nil, nil, err
	}

	e.metrics.RecordQuery("graph", time.Since(start).Seconds())
	return snap.Nodes, snap.Edges, nil
}

// Stats summarizes the current snapshot.
type Stats struct {
	SnapshotID     string
	BuiltAt        time.Time
	Publications   int
	Keywords       int
	Edges          int
	SkippedRecords int
}

// Stats returns build and corpus statistics for the current snapshot.
func (e *Engine) Stats() (Stats, error) {
	snap, err := e.provider.Current()
	if err != nil {
		e.metrics.RecordQueryFailed("stats", "not_ready")
		return Stats{}, err
	}

	return Stats{
		SnapshotID:     snap.ID.String(),
		BuiltAt:        snap.BuiltAt,
		Publications:   len(snap.PublicationKeywords),
		Keywords:       snap.KeywordCount(),
		Edges:          len(snap.Edges),
		SkippedRecords: len(snap.Skipped),
	}, nil
}

// Title resolves a publication title by record id.
func (e *Engine) Title(pubID string) (string, error) {
	snap, err := e.provider.Current()
	if err != nil {
		return "", err
	}
	record, ok := snap.Records[pubID]
	if !ok {
		return "", domain.NewNotFoundError("publication", pubID)
	}
	return record.Title, nil
}
