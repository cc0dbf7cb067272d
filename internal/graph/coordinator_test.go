package graph

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/observability"
)

// mockStore implements docstore.Lifecycle with function fields.
type mockStore struct {
	LoadFunc       func(ctx context.Context) (map[string]domain.PublicationRecord, error)
	InvalidateFunc func(ctx context.Context) error
}

func (m *mockStore) Load(ctx context.Context) (map[string]domain.PublicationRecord, error) {
	return m.LoadFunc(ctx)
}

func (m *mockStore) Invalidate(ctx context.Context) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx)
	}
	return nil
}

func testMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	return observability.NewMetrics(fmt.Sprintf("coordinator_test_%d", time.Now().UnixNano()))
}

func newTestCoordinator(t *testing.T, store *mockStore) *Coordinator {
	t.Helper()
	return NewCoordinator(store, newTestBuilder(Config{}), testMetrics(t), zerolog.Nop())
}

func TestCurrentBeforeFirstBuild(t *testing.T) {
	c := newTestCoordinator(t, &mockStore{
		LoadFunc: func(ctx context.Context) (map[string]domain.PublicationRecord, error) {
			return testRecords(), nil
		},
	})

	_, err := c.Current()
	assert.ErrorIs(t, err, domain.ErrNotReady)
	assert.False(t, c.Ready())
}

func TestRebuildPublishesSnapshot(t *testing.T) {
	c := newTestCoordinator(t, &mockStore{
		LoadFunc: func(ctx context.Context) (map[string]domain.PublicationRecord, error) {
			return testRecords(), nil
		},
	})

	id, err := c.Rebuild(context.Background())
	require.NoError(t, err)

	snap, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.True(t, c.Ready())
	assert.Len(t, snap.PublicationKeywords, 3)
}

func TestRebuildSwapsGeneration(t *testing.T) {
	c := newTestCoordinator(t, &mockStore{
		LoadFunc: func(ctx context.Context) (map[string]domain.PublicationRecord, error) {
			return testRecords(), nil
		},
	})

	firstID, err := c.Rebuild(context.Background())
	require.NoError(t, err)
	firstSnap, err := c.Current()
	require.NoError(t, err)

	secondID, err := c.Rebuild(context.Background())
	require.NoError(t, err)
	secondSnap, err := c.Current()
	require.NoError(t, err)

	assert.NotEqual(t, firstID, secondID)
	assert.Equal(t, firstID, firstSnap.ID, "already-bound references keep their generation")
	assert.Equal(t, secondID, secondSnap.ID)
}

func TestRebuildFailureKeepsOldSnapshot(t *testing.T) {
	fail := false
	c := newTestCoordinator(t, &mockStore{
		LoadFunc: func(ctx context.Context) (map[string]domain.PublicationRecord, error) {
			if fail {
				return nil, fmt.Errorf("%w: cache dir gone", domain.ErrCacheUnavailable)
			}
			return testRecords(), nil
		},
	})

	firstID, err := c.Rebuild(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = c.Rebuild(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	snap, err := c.Current()
	require.NoError(t, err, "failed rebuild must leave the published snapshot in place")
	assert.Equal(t, firstID, snap.ID)
}

func TestRebuildLogsBuildContext(t *testing.T) {
	var buf bytes.Buffer
	c := NewCoordinator(&mockStore{
		LoadFunc: func(ctx context.Context) (map[string]domain.PublicationRecord, error) {
			return testRecords(), nil
		},
	}, newTestBuilder(Config{}), testMetrics(t), zerolog.New(&buf))

	id, err := c.Rebuild(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "snapshot published")
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, `"records":3`)
}

func TestConcurrentReadersDuringRebuild(t *testing.T) {
	c := newTestCoordinator(t, &mockStore{
		LoadFunc: func(ctx context.Context) (map[string]domain.PublicationRecord, error) {
			return testRecords(), nil
		},
	})

	_, err := c.Rebuild(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			snap, err := c.Current()
			assert.NoError(t, err)
			// Every edge must reference nodes of the same generation.
			ids := make(map[string]bool, len(snap.Nodes))
			for _, n := range snap.Nodes {
				ids[n.ID] = true
			}
			for _, e := range snap.Edges {
				assert.True(t, ids[e.Source])
				assert.True(t, ids[e.Target])
			}
		}
	}()

	for i := 0; i < 5; i++ {
		_, err := c.Rebuild(context.Background())
		require.NoError(t, err)
	}
	<-done
}
