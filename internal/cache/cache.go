// Package cache implements the optional distributed cache (component N):
// the crawler's visited-URL set and the deduplicator's MinHash signature
// memoization, backed by either an in-process map or Redis.
package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/redis/rueidis"
)

// Cache is the interface both pipeline stages depend on. It is
// deliberately narrow: visited-URL marking and signature get/set, none
// of which leaks the storage backend's shape to callers.
type Cache interface {
	// MarkVisited records url as visited and reports whether it was
	// already present. Used by the crawler to dedupe the frontier across
	// restarts without loading the whole visited set into memory.
	MarkVisited(ctx context.Context, url string) (alreadyVisited bool, err error)

	// Signature returns a previously stored MinHash signature for key
	// (typically a paragraph's content hash), and whether it was found.
	Signature(ctx context.Context, key string) (sig []uint32, found bool, err error)

	// SetSignature stores a MinHash signature for key.
	SetSignature(ctx context.Context, key string, sig []uint32) error

	// Close releases any underlying connection.
	Close() error
}

// New builds a Cache from the configured backend: "none" (default, an
// in-process map good for a single pipeline run) or "redis" (shared
// across concurrent pipeline processes, per SPEC_FULL.md component N).
func New(backend, redisAddr string) (Cache, error) {
	switch backend {
	case "", "none":
		return newLocalCache(), nil
	case "redis":
		return newRedisCache(redisAddr)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", backend)
	}
}

// localCache is the zero-dependency default: a mutex-guarded map, alive
// for the lifetime of one process. It satisfies Cache without requiring
// a Redis instance for single-machine runs.
type localCache struct {
	mu         sync.Mutex
	visited    map[string]struct{}
	signatures map[string][]uint32
}

func newLocalCache() *localCache {
	return &localCache{
		visited:    make(map[string]struct{}),
		signatures: make(map[string][]uint32),
	}
}

func (c *localCache) MarkVisited(_ context.Context, url string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, seen := c.visited[url]
	c.visited[url] = struct{}{}
	return seen, nil
}

func (c *localCache) Signature(_ context.Context, key string) ([]uint32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sig, ok := c.signatures[key]
	return sig, ok, nil
}

func (c *localCache) SetSignature(_ context.Context, key string, sig []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signatures[key] = sig
	return nil
}

func (c *localCache) Close() error { return nil }

// redisCache backs Cache with rueidis, for deployments that share a
// crawl/dedup cache across multiple pipeline worker processes.
type redisCache struct {
	client rueidis.Client
}

func newRedisCache(addr string) (*redisCache, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("cache: connect to redis at %s: %w", addr, err)
	}
	return &redisCache{client: client}, nil
}

func (c *redisCache) MarkVisited(ctx context.Context, url string) (bool, error) {
	key := "visited:" + url
	// SETNX-style: SET key 1 NX reports whether the key was newly set.
	cmd := c.client.B().Set().Key(key).Value("1").Nx().Build()
	resp := c.client.Do(ctx, cmd)
	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return true, nil
		}
		return false, fmt.Errorf("cache: mark visited %s: %w", url, err)
	}
	// SET NX returns OK on success (newly set) or a nil reply when the
	// key already existed.
	return false, nil
}

func (c *redisCache) Signature(ctx context.Context, key string) ([]uint32, bool, error) {
	cmd := c.client.B().Get().Key("sig:" + key).Build()
	resp := c.client.Do(ctx, cmd)
	raw, err := resp.AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get signature %s: %w", key, err)
	}
	sig := decodeSignature(raw)
	return sig, true, nil
}

func (c *redisCache) SetSignature(ctx context.Context, key string, sig []uint32) error {
	cmd := c.client.B().Set().Key("sig:" + key).Value(rueidis.BinaryString(encodeSignature(sig))).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("cache: set signature %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Close() error {
	c.client.Close()
	return nil
}

// encodeSignature packs a MinHash signature as big-endian uint32s so it
// round-trips through Redis as an opaque binary string without JSON
// marshaling overhead on the hot deduplication path.
func encodeSignature(sig []uint32) []byte {
	buf := make([]byte, 4*len(sig))
	for i, v := range sig {
		binary.BigEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func decodeSignature(buf []byte) []uint32 {
	sig := make([]uint32, len(buf)/4)
	for i := range sig {
		sig[i] = binary.BigEndian.Uint32(buf[i*4:])
	}
	return sig
}
