// Package cluster groups publications into topic clusters from the graph's
// shared-keyword co-occurrence structure and derives representative themes.
package cluster

import (
	"sort"

	"github.com/spacebio/publication-graph-service/internal/domain"
)

// Config tunes cluster formation. The thresholds are empirical; denser
// corpora may need a higher minimum shared-keyword count.
type Config struct {
	// MinSharedKeywords is the minimum keyword intersection size for two
	// publications to count as connected.
	MinSharedKeywords int

	// MaxThemes caps the representative themes derived per cluster.
	MaxThemes int
}

// DefaultConfig returns the default cluster tuning.
func DefaultConfig() Config {
	return Config{
		MinSharedKeywords: 1,
		MaxThemes:         5,
	}
}

// Input is the projection of one graph snapshot the engine operates on.
type Input struct {
	// PublicationKeywords maps publication id to term to edge weight.
	PublicationKeywords map[string]map[string]int

	// SharedCounts maps publication pairs to their keyword intersection
	// size. Symmetric: SharedCounts[a][b] == SharedCounts[b][a].
	SharedCounts map[string]map[string]int
}

// Engine computes topic clusters. Safe for concurrent use; it holds no
// mutable state.
type Engine struct {
	cfg Config
}

// NewEngine creates a cluster engine.
func NewEngine(cfg Config) *Engine {
	if cfg.MinSharedKeywords < 1 {
		cfg.MinSharedKeywords = 1
	}
	if cfg.MaxThemes < 1 {
		cfg.MaxThemes = DefaultConfig().MaxThemes
	}
	return &Engine{cfg: cfg}
}

// Clusters groups publications into connected components over the
// shared-keyword projection. The result is deterministic for identical
// input: clusters are ordered by descending size, ties by smallest member
// id, and ids are assigned in that order starting at 1.
func (e *Engine) Clusters(in Input) []domain.Cluster {
	pubIDs := make([]string, 0, len(in.PublicationKeywords))
	for id := range in.PublicationKeywords {
		pubIDs = append(pubIDs, id)
	}
	sort.Strings(pubIDs)

	components := e.components(pubIDs, in.SharedCounts)

	sort.SliceStable(components, func(i, j int) bool {
		if len(components[i]) != len(components[j]) {
			return len(components[i]) > len(components[j])
		}
		return components[i][0] < components[j][0]
	})

	clusters := make([]domain.Cluster, len(components))
	for i, members := range components {
		clusters[i] = domain.Cluster{
			ID:      i + 1,
			Members: members,
			Themes:  e.themes(members, in.PublicationKeywords),
		}
	}
	return clusters
}

// components runs an iterative depth-first traversal over the projection.
// Visiting publications in sorted order keeps membership deterministic.
func (e *Engine) components(pubIDs []string, shared map[string]map[string]int) [][]string {
	visited := make(map[string]bool, len(pubIDs))
	var components [][]string

	for _, start := range pubIDs {
		if visited[start] {
			continue
		}

		var members []string
		stack := []string{start}
		visited[start] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, id)

			neighbors := make([]string, 0, len(shared[id]))
			for other, count := range shared[id] {
				if count >= e.cfg.MinSharedKeywords && !visited[other] {
					neighbors = append(neighbors, other)
				}
			}
			sort.Strings(neighbors)
			for _, other := range neighbors {
				visited[other] = true
				stack = append(stack, other)
			}
		}

		sort.Strings(members)
		components = append(components, members)
	}

	return components
}

// themes selects the top keywords, by total edge weight, that appear in
// more than one member publication. Ties break alphabetically so repeated
// runs agree. Clusters with no multi-member keyword get an empty theme list.
func (e *Engine) themes(members []string, pubKeywords map[string]map[string]int) []string {
	if len(members) < 2 {
		return []string{}
	}

	weight := make(map[string]int)
	memberCount := make(map[string]int)
	for _, id := range members {
		for term, w := range pubKeywords[id] {
			weight[term] += w
			memberCount[term]++
		}
	}

	candidates := make([]string, 0, len(weight))
	for term, n := range memberCount {
		if n > 1 {
			candidates = append(candidates, term)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if weight[candidates[i]] != weight[candidates[j]] {
			return weight[candidates[i]] > weight[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if len(candidates) > e.cfg.MaxThemes {
		candidates = candidates[:e.cfg.MaxThemes]
	}
	if candidates == nil {
		candidates = []string{}
	}
	return candidates
}
