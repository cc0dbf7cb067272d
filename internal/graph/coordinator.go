package graph

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spacebio/publication-graph-service/internal/docstore"
	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/observability"
)

// Coordinator owns the snapshot lifecycle: it is the single writer that
// loads the corpus, runs a build to completion, and publishes the result
// with one atomic swap. Readers obtain an immutable snapshot reference at
// request time; a rebuild never invalidates a reference already handed out.
type Coordinator struct {
	store   docstore.Lifecycle
	builder *Builder
	logger  zerolog.Logger
	metrics *observability.Metrics

	current atomic.Pointer[Snapshot]

	// rebuildMu serializes builds so concurrent triggers cannot interleave.
	rebuildMu sync.Mutex
}

// NewCoordinator creates a build coordinator. No snapshot exists until the
// first Rebuild succeeds; Current fails with ErrNotReady before that.
func NewCoordinator(store docstore.Lifecycle, builder *Builder, metrics *observability.Metrics, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:   store,
		builder: builder,
		metrics: metrics,
		logger:  logger.With().Str("component", "build-coordinator").Logger(),
	}
}

// Current returns the latest published snapshot, or ErrNotReady before the
// first successful build.
func (c *Coordinator) Current() (*Snapshot, error) {
	snap := c.current.Load()
	if snap == nil {
		return nil, domain.ErrNotReady
	}
	return snap, nil
}

// Ready reports whether a snapshot has been published.
func (c *Coordinator) Ready() bool {
	return c.current.Load() != nil
}

// Rebuild loads the corpus, builds a new snapshot, and publishes it. The
// previous snapshot stays visible to readers until the swap; a failed
// rebuild leaves it in place. Returns the new generation id.
func (c *Coordinator) Rebuild(ctx context.Context) (uuid.UUID, error) {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	start := time.Now()
	c.metrics.RecordBuildStarted()

	records, err := c.store.Load(ctx)
	if err != nil {
		c.metrics.RecordBuildFailed()
		return uuid.Nil, err
	}

	snap, err := c.builder.Build(ctx, records)
	if err != nil {
		c.metrics.RecordBuildFailed()
		return uuid.Nil, err
	}

	buildLog := observability.WithBuildContext(c.logger, snap.ID.String(), len(records))
	if len(snap.Skipped) > 0 {
		buildErr := &domain.BuildError{Skipped: snap.Skipped}
		buildLog.Warn().Err(buildErr).Msg("build completed with skipped records")
	}

	c.current.Store(snap)
	c.metrics.RecordBuildCompleted(time.Since(start).Seconds(), len(snap.PublicationKeywords), snap.KeywordCount(), len(snap.Edges), len(snap.Skipped))

	buildLog.Info().
		Dur("elapsed", time.Since(start)).
		Msg("snapshot published")

	return snap.ID, nil
}
