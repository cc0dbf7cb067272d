package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() Input {
	// Two connected groups plus one isolated publication.
	// Group 1: p1-p2-p3 share "microgravity"; p1/p2 also share "bone".
	// Group 2: p4-p5 share "radiation".
	return Input{
		PublicationKeywords: map[string]map[string]int{
			"p1": {"microgravity": 3, "bone": 2},
			"p2": {"microgravity": 1, "bone": 4},
			"p3": {"microgravity": 2, "muscle": 1},
			"p4": {"radiation": 2, "shielding": 1},
			"p5": {"radiation": 5},
			"p6": {"algae": 1},
		},
		SharedCounts: map[string]map[string]int{
			"p1": {"p2": 2, "p3": 1},
			"p2": {"p1": 2, "p3": 1},
			"p3": {"p1": 1, "p2": 1},
			"p4": {"p5": 1},
			"p5": {"p4": 1},
		},
	}
}

func TestClustersConnectedComponents(t *testing.T) {
	e := NewEngine(DefaultConfig())

	clusters := e.Clusters(testInput())

	require.Len(t, clusters, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, clusters[0].Members)
	assert.Equal(t, []string{"p4", "p5"}, clusters[1].Members)
	assert.Equal(t, []string{"p6"}, clusters[2].Members)
}

func TestClustersOrderedBySizeWithStableIDs(t *testing.T) {
	e := NewEngine(DefaultConfig())

	clusters := e.Clusters(testInput())

	require.Len(t, clusters, 3)
	assert.Equal(t, 1, clusters[0].ID)
	assert.Equal(t, 3, clusters[0].Size())
	assert.Equal(t, 2, clusters[1].ID)
	assert.Equal(t, 2, clusters[1].Size())
	assert.Equal(t, 3, clusters[2].ID)
	assert.Equal(t, 1, clusters[2].Size())
}

func TestClusterThemes(t *testing.T) {
	e := NewEngine(DefaultConfig())

	clusters := e.Clusters(testInput())

	// "microgravity" spans three members (total weight 6), "bone" two
	// (weight 6); "muscle" appears in one member only and is excluded.
	require.Len(t, clusters, 3)
	assert.Equal(t, []string{"bone", "microgravity"}, clusters[0].Themes,
		"equal weights break ties alphabetically")
	assert.Equal(t, []string{"radiation"}, clusters[1].Themes)
	assert.Empty(t, clusters[2].Themes, "singleton cluster has no themes")
	assert.NotNil(t, clusters[2].Themes)
}

func TestClusterThemesCapped(t *testing.T) {
	e := NewEngine(Config{MinSharedKeywords: 1, MaxThemes: 1})

	clusters := e.Clusters(testInput())

	require.NotEmpty(t, clusters)
	assert.Len(t, clusters[0].Themes, 1)
}

func TestClustersDeterministic(t *testing.T) {
	e := NewEngine(DefaultConfig())
	in := testInput()

	first := e.Clusters(in)
	second := e.Clusters(in)

	assert.Equal(t, first, second, "identical input yields identical membership and order")
}

func TestMinSharedKeywordsThreshold(t *testing.T) {
	e := NewEngine(Config{MinSharedKeywords: 2, MaxThemes: 5})

	clusters := e.Clusters(testInput())

	// Only the p1-p2 link (2 shared keywords) survives the threshold.
	require.Len(t, clusters, 5)
	assert.Equal(t, []string{"p1", "p2"}, clusters[0].Members)
	for _, c := range clusters[1:] {
		assert.Equal(t, 1, c.Size())
	}
}
