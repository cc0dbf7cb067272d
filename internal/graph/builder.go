package graph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spacebio/publication-graph-service/internal/cluster"
	"github.com/spacebio/publication-graph-service/internal/domain"
)

// DefaultSectionTag marks publication-keyword edges whose source section is
// unknown.
const DefaultSectionTag = "unknown"

// publicationThemeCap bounds the per-publication theme list carried on
// publication nodes for rendering.
const publicationThemeCap = 5

// KeywordExtractor is the extraction dependency of the builder.
type KeywordExtractor interface {
	// Extract returns deduplicated terms in first-appearance order.
	Extract(text string) []string

	// Counts returns per-term occurrence counts.
	Counts(text string) map[string]int
}

// Config tunes graph construction.
type Config struct {
	// SimilarityEdges emits publication-publication shared-keyword edges
	// into the exported graph. The projection itself is always computed;
	// this only controls whether it appears as links.
	SimilarityEdges bool
}

// Builder constructs graph snapshots from loaded records. It is the sole
// writer of graph state; readers only ever see the finished snapshot.
type Builder struct {
	cfg       Config
	extractor KeywordExtractor
	clusters  *cluster.Engine
	logger    zerolog.Logger
}

// NewBuilder creates a graph builder.
func NewBuilder(cfg Config, extractor KeywordExtractor, clusters *cluster.Engine, logger zerolog.Logger) *Builder {
	return &Builder{
		cfg:       cfg,
		extractor: extractor,
		clusters:  clusters,
		logger:    logger.With().Str("component", "graph-builder").Logger(),
	}
}

// Build runs the full construction pass: extraction, node and edge
// assembly, the shared-keyword projection, and derived indexes. Malformed
// records are skipped and aggregated on the snapshot; the pass never aborts
// for a single record.
func (b *Builder) Build(ctx context.Context, records map[string]domain.PublicationRecord) (*Snapshot, error) {
	start := time.Now()

	pubIDs := make([]string, 0, len(records))
	for id := range records {
		pubIDs = append(pubIDs, id)
	}
	sort.Strings(pubIDs)

	snap := &Snapshot{
		ID:                  uuid.New(),
		Records:             make(map[string]domain.PublicationRecord, len(records)),
		PublicationKeywords: make(map[string]map[string]int, len(records)),
		KeywordPublications: make(map[string][]string),
		SharedCounts:        make(map[string]map[string]int),
		FirstSeen:           make(map[string]int),
	}

	// Keyword terms in global first-appearance order, for node emission.
	var termOrder []string
	pubTermOrder := make(map[string][]string, len(records))
	pubTermSection := make(map[string]map[string]string, len(records))

	for _, id := range pubIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := records[id]

		terms, weights, sections, err := b.extractRecord(record)
		if err != nil {
			snap.Skipped = append(snap.Skipped, *domain.NewRecordError(id, "", err))
			continue
		}

		// Skipped records stay out of Records entirely so readers never
		// see them.
		snap.Records[id] = record
		snap.PublicationKeywords[id] = weights
		pubTermOrder[id] = terms
		pubTermSection[id] = sections

		for _, term := range terms {
			if _, seen := snap.FirstSeen[term]; !seen {
				snap.FirstSeen[term] = len(termOrder)
				termOrder = append(termOrder, term)
			}
			snap.KeywordPublications[term] = append(snap.KeywordPublications[term], id)
		}
	}

	b.projectSharedCounts(snap)
	b.assembleNodes(snap, pubIDs, termOrder)
	b.assembleEdges(snap, pubIDs, pubTermOrder, pubTermSection)

	snap.clusterFn = func() []domain.Cluster {
		return b.clusters.Clusters(cluster.Input{
			PublicationKeywords: snap.PublicationKeywords,
			SharedCounts:        snap.SharedCounts,
		})
	}
	snap.BuiltAt = time.Now()

	b.logger.Info().
		Str("snapshot_id", snap.ID.String()).
		Int("publications", len(snap.PublicationKeywords)).
		Int("keywords", len(termOrder)).
		Int("edges", len(snap.Edges)).
		Int("skipped", len(snap.Skipped)).
		Dur("elapsed", time.Since(start)).
		Msg("graph built")

	return snap, nil
}

// extractRecord extracts keyword terms from one record. Terms come back in
// first-appearance order; weights are total term frequency across the
// abstract and all sections; sections records the first section each term
// was found in.
func (b *Builder) extractRecord(record domain.PublicationRecord) (terms []string, weights map[string]int, sections map[string]string, err error) {
	if record.Title == "" {
		return nil, nil, nil, fmt.Errorf("record has no title")
	}

	weights = make(map[string]int)
	sections = make(map[string]string)
	seen := make(map[string]struct{})

	scan := func(sectionName, text string) {
		if text == "" {
			return
		}
		for _, term := range b.extractor.Extract(text) {
			if _, dup := seen[term]; !dup {
				seen[term] = struct{}{}
				terms = append(terms, term)
				sections[term] = sectionName
			}
		}
		for term, count := range b.extractor.Counts(text) {
			weights[term] += count
		}
	}

	scan("abstract", record.Abstract)
	for _, section := range record.Sections {
		scan(section.Name, section.Text)
	}

	return terms, weights, sections, nil
}

// projectSharedCounts computes the publication-publication shared-keyword
// projection via an inverted-index join over KeywordPublications. The
// result is symmetric.
func (b *Builder) projectSharedCounts(snap *Snapshot) {
	for _, pubs := range snap.KeywordPublications {
		for i := 0; i < len(pubs); i++ {
			for j := i + 1; j < len(pubs); j++ {
				a, c := pubs[i], pubs[j]
				if snap.SharedCounts[a] == nil {
					snap.SharedCounts[a] = make(map[string]int)
				}
				if snap.SharedCounts[c] == nil {
					snap.SharedCounts[c] = make(map[string]int)
				}
				snap.SharedCounts[a][c]++
				snap.SharedCounts[c][a]++
			}
		}
	}
}

// assembleNodes emits publication nodes in ascending id order followed by
// keyword nodes in global first-seen order. Sizes are set post-hoc from
// degree and carry no graph semantics.
func (b *Builder) assembleNodes(snap *Snapshot, pubIDs, termOrder []string) {
	snap.Nodes = make([]domain.Node, 0, len(pubIDs)+len(termOrder))

	for _, id := range pubIDs {
		weights, ok := snap.PublicationKeywords[id]
		if !ok {
			continue
		}
		record := snap.Records[id]

		node := domain.Node{
			ID:     id,
			Type:   domain.NodeTypePublication,
			Name:   domain.TruncateNodeName(record.Title),
			Size:   10 + len(weights),
			URL:    record.URL,
			Themes: topTerms(weights, publicationThemeCap),
		}
		if record.PublishedDate != nil {
			node.PublishedDate = record.PublishedDate.Format("2006-01-02")
		}
		snap.Nodes = append(snap.Nodes, node)
	}

	for _, term := range termOrder {
		snap.Nodes = append(snap.Nodes, domain.Node{
			ID:   domain.KeywordNodeID(term),
			Type: domain.NodeTypeKeyword,
			Name: domain.TruncateNodeName(term),
			Size: 5 + 2*len(snap.KeywordPublications[term]),
		})
	}
}

// assembleEdges emits one publication-keyword edge per (publication, term)
// pair, then the similarity projection as edges when configured.
func (b *Builder) assembleEdges(snap *Snapshot, pubIDs []string, pubTermOrder map[string][]string, pubTermSection map[string]map[string]string) {
	for _, id := range pubIDs {
		for _, term := range pubTermOrder[id] {
			section := pubTermSection[id][term]
			if section == "" {
				section = DefaultSectionTag
			}
			snap.Edges = append(snap.Edges, domain.Edge{
				Source:  id,
				Target:  domain.KeywordNodeID(term),
				Weight:  snap.PublicationKeywords[id][term],
				Section: section,
			})
		}
	}

	if !b.cfg.SimilarityEdges {
		return
	}
	for _, a := range pubIDs {
		others := make([]string, 0, len(snap.SharedCounts[a]))
		for other := range snap.SharedCounts[a] {
			if a < other {
				others = append(others, other)
			}
		}
		sort.Strings(others)
		for _, other := range others {
			snap.Edges = append(snap.Edges, domain.Edge{
				Source: a,
				Target: other,
				Weight: snap.SharedCounts[a][other],
			})
		}
	}
}

// topTerms returns the n highest-weight terms, ties broken alphabetically.
func topTerms(weights map[string]int, n int) []string {
	terms := make([]string, 0, len(weights))
	for term := range weights {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if weights[terms[i]] != weights[terms[j]] {
			return weights[terms[i]] > weights[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
