// Package main provides a CLI tool for offline graph builds. It loads the
// document cache, builds one snapshot, and prints build statistics without
// starting the HTTP server. Useful for validating a cache directory before
// deploying it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spacebio/publication-graph-service/internal/cluster"
	"github.com/spacebio/publication-graph-service/internal/config"
	"github.com/spacebio/publication-graph-service/internal/docstore"
	"github.com/spacebio/publication-graph-service/internal/extract"
	"github.com/spacebio/publication-graph-service/internal/graph"
	"github.com/spacebio/publication-graph-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Define CLI flags.
	cacheDir := flag.String("cache", "", "Override the document cache directory")
	similarity := flag.Bool("similarity", false, "Include publication-to-publication similarity edges")
	clusters := flag.Bool("clusters", false, "Also compute and print topic clusters")
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum build duration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *cacheDir != "" {
		cfg.Cache.Dir = *cacheDir
	}
	if *similarity {
		cfg.Graph.SimilarityEdges = true
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: "stderr",
	})
	logger = logger.With().Str("component", "rebuild").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store := docstore.NewStore(cfg.Cache.Dir, logger)
	clusterEngine := cluster.NewEngine(cluster.Config{
		MinSharedKeywords: cfg.Cluster.MinSharedKeywords,
		MaxThemes:         cfg.Cluster.MaxThemes,
	})
	builder := graph.NewBuilder(graph.Config{
		SimilarityEdges: cfg.Graph.SimilarityEdges,
	}, extract.New(), clusterEngine, logger)

	start := time.Now()
	records, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document cache: %w", err)
	}

	snap, err := builder.Build(ctx, records)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("snapshot:     %s\n", snap.ID)
	fmt.Printf("built in:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("publications: %d\n", len(snap.PublicationKeywords))
	fmt.Printf("keywords:     %d\n", snap.KeywordCount())
	fmt.Printf("nodes:        %d\n", len(snap.Nodes))
	fmt.Printf("edges:        %d\n", len(snap.Edges))
	fmt.Printf("skipped:      %d\n", len(snap.Skipped))
	for _, skipped := range snap.Skipped {
		fmt.Printf("  skipped %s: %v\n", skipped.RecordID, skipped.Cause)
	}

	if *clusters {
		for _, c := range snap.Clusters() {
			fmt.Printf("cluster %d: %d publications, themes %v\n", c.ID, c.Size(), c.Themes)
		}
	}

	return nil
}
