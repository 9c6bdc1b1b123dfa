package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// VectorCache guarda vectores ya computados, con expiración.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error
}

type memoryVectorEntry struct {
	vector    []float32
	expiresAt time.Time
}

type memoryVectorCache struct {
	mu    sync.Mutex
	items map[string]memoryVectorEntry
}

func NewMemoryVectorCache() VectorCache {
	return &memoryVectorCache{items: make(map[string]memoryVectorEntry)}
}

func (c *memoryVectorCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	return entry.vector, true, nil
}

func (c *memoryVectorCache) Set(_ context.Context, key string, vector []float32, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryVectorEntry{vector: vector, expiresAt: time.Now().UTC().Add(ttl)}
	return nil
}

type redisVectorCache struct {
	client *redis.Client
	prefix string
}

func NewRedisVectorCache(client *redis.Client) VectorCache {
	if client == nil {
		return nil
	}
	return &redisVectorCache{client: client, prefix: "embed:"}
}

func (c *redisVectorCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

func (c *redisVectorCache) Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	raw, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}

// CachedEmbedder envuelve un Embedder con cache por (perfil, hash del texto)
// y semántica single-flight: requests concurrentes por la misma clave
// disparan una sola llamada externa.
type CachedEmbedder struct {
	inner  Embedder
	cache  VectorCache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

func NewCachedEmbedder(inner Embedder, cache VectorCache, ttl time.Duration, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) Embed(ctx context.Context, profileID, description string) ([]float32, error) {
	key := cacheKey(profileID, description)

	if vector, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("embedding cache get failed", zap.Error(err), zap.String("profile_id", profileID))
	} else if ok {
		return vector, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		vector, err := c.inner.Embed(ctx, profileID, description)
		if err != nil {
			return nil, err
		}
		if cerr := c.cache.Set(ctx, key, vector, c.ttl); cerr != nil {
			c.logger.Warn("embedding cache set failed", zap.Error(cerr), zap.String("profile_id", profileID))
		}
		return vector, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]float32), nil
}

// cacheKey incluye el hash del texto: si la descripción cambia, el vector
// cacheado del mismo perfil deja de aplicar.
func cacheKey(profileID, description string) string {
	sum := sha256.Sum256([]byte(description))
	return profileID + ":" + hex.EncodeToString(sum[:])
}
