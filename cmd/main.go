package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dramlab/tastegraph/internal/cache"
	"github.com/dramlab/tastegraph/internal/data/catalog"
	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/db"
	"github.com/dramlab/tastegraph/internal/engine"
	"github.com/dramlab/tastegraph/internal/http/handlers"
	"github.com/dramlab/tastegraph/internal/observability"
	"github.com/dramlab/tastegraph/internal/platform/envutil"
	"github.com/dramlab/tastegraph/internal/platform/logger"
	"github.com/dramlab/tastegraph/internal/platform/neo4jdb"
	"github.com/dramlab/tastegraph/internal/server"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "tastegraph",
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() { _ = shutdownOTel(ctx) }()
	}

	// Graph store
	log.Info("Setting up graph store...")
	neo4jClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init Neo4j client", "error", err)
		os.Exit(1)
	}
	var store graph.Store
	if neo4jClient != nil {
		defer func() { _ = neo4jClient.Close(ctx) }()
		neo4jStore := graph.NewNeo4jStore(neo4jClient, log)
		if err := neo4jStore.InitSchema(ctx); err != nil {
			log.Warn("Graph schema init failed (continuing)", "error", err)
		}
		store = neo4jStore
	} else {
		log.Warn("NEO4J_URI not set, using in-memory graph store")
		store = graph.NewMemoryStore()
	}

	// Catalog
	log.Info("Setting up item catalog...")
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	itemCatalog := catalog.NewCatalog(postgresService.DB(), log)

	// Profile cache (optional)
	profileCache, err := cache.NewRedisProfileCacheFromEnv(log)
	if err != nil {
		log.Warn("Could not init profile cache, profiles run uncached", "error", err)
	}
	var engineCache engine.ProfileCache
	if profileCache != nil {
		defer func() { _ = profileCache.Close() }()
		engineCache = profileCache
	}

	// Engine
	log.Info("Setting up engine components...")
	ledger := engine.NewLedger(store, log)
	profiler := engine.NewProfiler(store, engineCache, log)
	sampler := engine.NewSampler(store, log)
	rankings := engine.NewRankings(store, log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:                   log,
		ServiceName:           "tastegraph",
		AllowOrigins:          []string{envutil.GetEnv("CORS_ALLOW_ORIGIN", "http://localhost:3000", log)},
		HealthHandler:         handlers.NewHealthHandler(),
		RatingHandler:         handlers.NewRatingHandler(ledger, engineCache, log),
		TasteHandler:          handlers.NewTasteHandler(profiler, log),
		RecommendationHandler: handlers.NewRecommendationHandler(sampler, log),
		ItemHandler:           handlers.NewItemHandler(itemCatalog, rankings, log),
	})

	port := envutil.GetEnv("PORT", "8080", log)
	log.Info("Starting HTTP server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}
