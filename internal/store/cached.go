package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// DefaultCacheTTL applies when no TTL is configured
const DefaultCacheTTL = 10 * time.Minute

const artifactKeyPrefix = "ranking:artifact:"

// Cached puts a Redis read-through cache in front of another store. Artifacts
// are immutable, so they are cached by id without invalidation. The latest
// pointer is never cached; it always comes from the wrapped store. A nil
// client or an unreachable server bypasses the cache.
type Cached struct {
	next   ArtifactStore
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewCached wraps next with a cache backed by client
func NewCached(next ArtifactStore, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *Cached) unavailable() bool {
	return c.client == nil
}

func (c *Cached) warnUnavailableOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Warn("redis unavailable, bypassing cache", zap.Error(err))
	}
}

// Create implements ArtifactStore
func (c *Cached) Create(ctx context.Context, artifact *types.RankingArtifact) error {
	if err := c.next.Create(ctx, artifact); err != nil {
		return err
	}
	c.setJSON(ctx, artifactKeyPrefix+artifact.ArtifactID, artifact)
	return nil
}

// Get implements ArtifactStore
func (c *Cached) Get(ctx context.Context, artifactID string) (*types.RankingArtifact, error) {
	var cached types.RankingArtifact
	if c.getJSON(ctx, artifactKeyPrefix+artifactID, &cached) {
		return &cached, nil
	}

	artifact, err := c.next.Get(ctx, artifactID)
	if err != nil {
		return nil, err
	}
	c.setJSON(ctx, artifactKeyPrefix+artifactID, artifact)
	return artifact, nil
}

// GetLatest implements ArtifactStore. The pointer is resolved by the wrapped
// store on every call so a concurrent Create can never be shadowed.
func (c *Cached) GetLatest(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	artifact, err := c.next.GetLatest(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	c.setJSON(ctx, artifactKeyPrefix+artifact.ArtifactID, artifact)
	return artifact, nil
}

// List implements ArtifactStore; listings are not cached
func (c *Cached) List(ctx context.Context, requisitionID string) ([]types.ArtifactSummary, error) {
	return c.next.List(ctx, requisitionID)
}

func (c *Cached) getJSON(ctx context.Context, key string, out any) bool {
	if c.unavailable() {
		return false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnUnavailableOnce(err)
		}
		return false
	}
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cached) setJSON(ctx context.Context, key string, value any) {
	if c.unavailable() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
	}
}
