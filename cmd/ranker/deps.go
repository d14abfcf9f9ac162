package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/records"
	"github.com/jonathan/candidate-ranker/internal/store"
)

// app holds the wired collaborators of one command invocation
type app struct {
	service *pipeline.Service
	db      *db.DB
	redis   *redis.Client
}

// newApp wires stores, record sources and the ranking service from cfg
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, onProgress pipeline.ProgressCallback) (*app, error) {
	a := &app{}

	if cfg.Store.Backend == config.BackendPostgres || cfg.Records.Source == config.SourcePostgres {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.db = database
	}

	artifacts, err := a.artifactStore(cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	var requirements records.RequirementSource
	var candidates records.CandidateSource
	switch cfg.Records.Source {
	case config.SourcePostgres:
		src := a.db.Records()
		requirements, candidates = src, src
	default:
		src := records.NewDirSource(cfg.Records.Dir)
		requirements, candidates = src, src
	}

	strategy, err := ranking.NewStrategy(cfg.Ranking.Strategy, cfg.Ranking.Workers)
	if err != nil {
		a.Close()
		return nil, err
	}

	svc, err := pipeline.NewService(pipeline.Options{
		Requirements: requirements,
		Candidates:   candidates,
		Store:        artifacts,
		Strategy:     strategy,
		Logger:       log,
		OnProgress:   onProgress,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = svc

	log.Debug("wired ranking service",
		zap.String("store", cfg.Store.Backend),
		zap.String("records", cfg.Records.Source),
		zap.String("strategy", strategy.Name()),
		zap.Bool("cache", a.redis != nil),
	)
	return a, nil
}

func (a *app) artifactStore(cfg *config.Config, log *zap.Logger) (store.ArtifactStore, error) {
	var base store.ArtifactStore
	switch cfg.Store.Backend {
	case config.BackendMemory:
		base = store.NewMemory()
	case config.BackendPostgres:
		base = a.db.Rankings()
	default:
		fileStore, err := store.NewFile(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		base = fileStore
	}

	if cfg.Redis.Addr == "" {
		return base, nil
	}
	a.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return store.NewCached(base, a.redis, cfg.Redis.TTL, log), nil
}

// Close releases database and cache connections
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
