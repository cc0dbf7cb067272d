package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFiltersStopWordsAndShortTokens(t *testing.T) {
	e := New()

	terms := e.Extract("The effects of microgravity on bone density in mice")

	assert.Contains(t, terms, "microgravity")
	assert.Contains(t, terms, "bone")
	assert.Contains(t, terms, "density")
	assert.Contains(t, terms, "mice")
	assert.NotContains(t, terms, "the", "stop word must be filtered")
	assert.NotContains(t, terms, "effects", "academic filler must be filtered")
	assert.NotContains(t, terms, "on", "short token must be filtered")
	assert.NotContains(t, terms, "of")
}

func TestExtractRecoversHyphenatedTerms(t *testing.T) {
	e := New()

	terms := e.Extract("RNA-seq profiling under micro-CT imaging")

	assert.Contains(t, terms, "rna-seq", "hyphenated compound recovered from original-case pass")
	assert.Contains(t, terms, "micro-ct")
	assert.Contains(t, terms, "profiling")
	assert.Contains(t, terms, "imaging")
}

func TestExtractIsIdempotent(t *testing.T) {
	e := New()
	text := "Spaceflight-induced osteopenia alters osteoblast differentiation and osteoblast signaling"

	first := e.Extract(text)
	second := e.Extract(text)

	assert.Equal(t, first, second, "repeated extraction of identical text must match")
}

func TestExtractDeduplicates(t *testing.T) {
	e := New()

	terms := e.Extract("osteoblast osteoblast osteoblast differentiation")

	count := 0
	for _, term := range terms {
		if term == "osteoblast" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate terms collapse to one entry")
}

func TestExtractFirstAppearanceOrder(t *testing.T) {
	e := New()

	terms := e.Extract("radiation exposure alters gene expression, radiation dosage matters")

	require.NotEmpty(t, terms)
	assert.Equal(t, "radiation", terms[0])
	idxGene := indexOf(terms, "gene")
	idxExposure := indexOf(terms, "exposure")
	require.GreaterOrEqual(t, idxGene, 0)
	require.GreaterOrEqual(t, idxExposure, 0)
	assert.Less(t, idxExposure, idxGene, "terms keep first-seen order")
}

func TestExtractEmptyText(t *testing.T) {
	e := New()

	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("   "))
	assert.Empty(t, e.Extract("a an of the"))
}

func TestCounts(t *testing.T) {
	e := New()

	counts := e.Counts("microgravity significantly alters microgravity adaptation")

	assert.Equal(t, 2, counts["microgravity"])
	assert.Equal(t, 1, counts["adaptation"])
	assert.Zero(t, counts["significantly"], "filler word not counted")
}

func TestCountsHyphenatedCompound(t *testing.T) {
	e := New()

	counts := e.Counts("RNA-seq and RNA-seq replicates")

	assert.Equal(t, 2, counts["rna-seq"])
	assert.Equal(t, 1, counts["replicates"])
}

func indexOf(terms []string, want string) int {
	for i, term := range terms {
		if term == want {
			return i
		}
	}
	return -1
}
