package domain

import "unicode/utf8"

// NodeType distinguishes the two node variants of the knowledge graph.
type NodeType string

const (
	// NodeTypePublication is a node backed by one PublicationRecord.
	NodeTypePublication NodeType = "publication"

	// NodeTypeKeyword is a node backed by a normalized extracted term,
	// shared across all publications containing it.
	NodeTypeKeyword NodeType = "keyword"
)

// KeywordNodeIDPrefix keeps keyword node ids in a namespace disjoint from
// publication ids, so the two can never collide.
const KeywordNodeIDPrefix = "kw:"

// KeywordNodeID returns the graph node id for a normalized term.
func KeywordNodeID(term string) string {
	return KeywordNodeIDPrefix + term
}

// Node is one vertex of the knowledge graph. The Type field selects the
// variant; consumers must switch on it exhaustively rather than probing
// optional fields.
type Node struct {
	// ID is unique within one graph snapshot.
	ID string

	// Type selects the node variant.
	Type NodeType

	// Name is the display label (publication title or keyword term).
	Name string

	// Size is a rendering weight derived from degree. It carries no graph
	// semantics and must never influence queries.
	Size int

	// URL is set for publication nodes only.
	URL string

	// PublishedDate is the ISO date string for publication nodes, empty
	// when unknown.
	PublishedDate string

	// Themes lists the publication's own top keywords for rendering.
	// Publication nodes only.
	Themes []string
}

// Edge connects two node ids. Edges are undirected in meaning though stored
// as (source, target) pairs; aggregating readers must treat (a,b) and (b,a)
// as equivalent.
type Edge struct {
	// Source and Target reference node ids in the same snapshot.
	Source string
	Target string

	// Weight is the term frequency for publication-keyword edges, or the
	// shared-keyword count for publication-publication edges.
	Weight int

	// Section names where in the source document the relation originated,
	// for link styling only. Empty for similarity edges.
	Section string
}

// Cluster is one topic cluster of publications. Ids are assigned at
// computation time in descending-size order and are not stable across
// rebuilds.
type Cluster struct {
	// ID is the cluster number, starting at 1.
	ID int

	// Members lists member publication ids in ascending order.
	Members []string

	// Themes are the top shared keywords across members, capped by
	// configuration. Empty when no keyword spans more than one member.
	Themes []string
}

// Size returns the member count.
func (c *Cluster) Size() int {
	return len(c.Members)
}

// maxNodeNameRunes bounds node display labels for the renderer.
const maxNodeNameRunes = 50

// TruncateNodeName shortens long display labels, keeping the first 47 runes
// plus an ellipsis marker.
func TruncateNodeName(name string) string {
	if utf8.RuneCountInString(name) < maxNodeNameRunes {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxNodeNameRunes-3]) + "..."
}
