package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// memoryRedis answers GET and SET from a map so the cache can be exercised
// without a server. It is installed as a client hook, so nothing is dialed.
type memoryRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: make(map[string]string)}
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (m *memoryRedis) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		args := cmd.Args()
		if len(args) < 2 {
			return fmt.Errorf("unsupported command %q", cmd.Name())
		}
		key := fmt.Sprint(args[1])

		switch c := cmd.(type) {
		case *redis.StringCmd:
			v, ok := m.data[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(v)
		case *redis.StatusCmd:
			switch v := args[2].(type) {
			case []byte:
				m.data[key] = string(v)
			default:
				m.data[key] = fmt.Sprint(v)
			}
			c.SetVal("OK")
		default:
			return fmt.Errorf("unsupported command %q", cmd.Name())
		}
		return nil
	}
}

func (m *memoryRedis) keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

func newHookedClient(t *testing.T, fake *memoryRedis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(fake)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// interleavingStore runs afterLatest once, between the wrapped store
// resolving the latest artifact and GetLatest returning it.
type interleavingStore struct {
	ArtifactStore
	afterLatest func()
}

func (s *interleavingStore) GetLatest(ctx context.Context, requisitionID string) (*types.RankingArtifact, error) {
	artifact, err := s.ArtifactStore.GetLatest(ctx, requisitionID)
	if f := s.afterLatest; f != nil {
		s.afterLatest = nil
		f()
	}
	return artifact, err
}

func TestCached_CreateDuringLatestLookupIsVisible(t *testing.T) {
	ctx := context.Background()
	fake := newMemoryRedis()
	inner := &interleavingStore{ArtifactStore: NewMemory()}
	c := NewCached(inner, newHookedClient(t, fake), time.Minute, zap.NewNop())

	older := testArtifact("JD-001", time.Unix(1700000000, 0))
	newer := testArtifact("JD-001", time.Unix(1700000100, 0))
	require.NoError(t, c.Create(ctx, older))

	inner.afterLatest = func() {
		require.NoError(t, c.Create(ctx, newer))
	}

	first, err := c.GetLatest(ctx, "JD-001")
	require.NoError(t, err)
	assert.Equal(t, older.ArtifactID, first.ArtifactID)

	second, err := c.GetLatest(ctx, "JD-001")
	require.NoError(t, err)
	assert.Equal(t, newer.ArtifactID, second.ArtifactID)

	assert.Empty(t, fake.keys("ranking:latest:"))
	assert.ElementsMatch(t, []string{
		artifactKeyPrefix + older.ArtifactID,
		artifactKeyPrefix + newer.ArtifactID,
	}, fake.keys(artifactKeyPrefix))
}

func TestCached_GetReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	fake := newMemoryRedis()
	c := NewCached(NewMemory(), newHookedClient(t, fake), time.Minute, zap.NewNop())

	// Present only in the cache.
	cachedOnly := testArtifact("JD-009", time.Unix(1700000000, 0))
	b, err := json.Marshal(cachedOnly)
	require.NoError(t, err)
	fake.data[artifactKeyPrefix+cachedOnly.ArtifactID] = string(b)

	got, err := c.Get(ctx, cachedOnly.ArtifactID)
	require.NoError(t, err)
	assert.Equal(t, cachedOnly.ArtifactID, got.ArtifactID)
	assert.Equal(t, cachedOnly.Entries[0].MatchScore, got.Entries[0].MatchScore)

	// Undecodable entries fall through to the wrapped store.
	fake.data[artifactKeyPrefix+"RANK-JD-404-1"] = "{not json"
	_, err = c.Get(ctx, "RANK-JD-404-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
