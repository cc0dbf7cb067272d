// Package graph builds the publication knowledge graph and owns the
// immutable snapshot lifecycle around it.
package graph

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spacebio/publication-graph-service/internal/domain"
)

// Snapshot is one fully built, immutable instance of the knowledge graph
// plus the derived indexes the query side needs. A snapshot is never
// mutated after Build returns; a rebuild supersedes it wholesale.
type Snapshot struct {
	// ID is the snapshot generation id.
	ID uuid.UUID

	// BuiltAt records when the build completed.
	BuiltAt time.Time

	// Records holds the source records by id.
	Records map[string]domain.PublicationRecord

	// Nodes and Edges are the graph in export order: publication nodes in
	// ascending id order, then keyword nodes in first-seen order.
	Nodes []domain.Node
	Edges []domain.Edge

	// PublicationKeywords maps publication id to term to edge weight.
	PublicationKeywords map[string]map[string]int

	// KeywordPublications maps term to the ascending ids of publications
	// containing it.
	KeywordPublications map[string][]string

	// SharedCounts is the publication-publication shared-keyword
	// projection, symmetric by construction.
	SharedCounts map[string]map[string]int

	// FirstSeen assigns each term its global first-appearance rank,
	// scanning publications in ascending id order.
	FirstSeen map[string]int

	// Skipped lists records the build pass dropped, aggregated for one
	// report after the pass instead of being raised eagerly per record.
	Skipped []domain.RecordError

	clusterOnce sync.Once
	clusterFn   func() []domain.Cluster
	clusters    []domain.Cluster
}

// Clusters returns the topic clusters for this snapshot. The computation
// runs once per snapshot generation; concurrent first callers share a
// single flight and later callers get the memoized result.
func (s *Snapshot) Clusters() []domain.Cluster {
	s.clusterOnce.Do(func() {
		s.clusters = s.clusterFn()
	})
	return s.clusters
}

// KeywordCount returns the number of distinct keyword terms in the graph.
func (s *Snapshot) KeywordCount() int {
	return len(s.KeywordPublications)
}
