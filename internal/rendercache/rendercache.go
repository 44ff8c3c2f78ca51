// Package rendercache caches materialized render runs behind Redis. A
// render run is the frozen output of a deterministic picker replay: once a
// client has asked for a render at a given N from a given Pen with a given picker seed,
// repeating the same request should not re-invoke the picker, it should
// replay the cached tokens. A live (non-replayed) render always re-invokes
// the picker and never reads this cache.
package rendercache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"

	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// Config holds cache-wide settings, mirroring the teacher's CacheConfig
// shape (default TTL plus a key prefix).
type Config struct {
	DefaultTTL time.Duration
	Prefix     string
}

// DefaultConfig returns a 10 minute TTL under the "magictext:render:" prefix.
func DefaultConfig() Config {
	return Config{DefaultTTL: 10 * time.Minute, Prefix: "magictext:render:"}
}

// Cache is a Redis-backed cache of render runs.
type Cache struct {
	client *redis.Client
	config Config
}

// New wraps an existing client. The caller owns the client's lifecycle
// insofar as Close on the Cache also closes the client.
func New(client *redis.Client, config Config) *Cache {
	return &Cache{client: client, config: config}
}

// Dial connects to addr with the given config, pinging once to surface
// connection failures at construction time rather than on first use.
func Dial(ctx context.Context, addr string, config Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, xerrors.WrapUpstream(err)
	}

	return New(client, config), nil
}

// ErrMiss is returned by Get when key has no cached run.
var ErrMiss = errors.New("rendercache: miss")

// Key identifies a cached render run: the corpus id, N, and the picker
// replay that produced it. Two requests with the same Key are, by
// definition, requesting the same frozen output.
type Key struct {
	CorpusID string `json:"corpus_id"`
	N        int    `json:"n"`
	Replay   []int  `json:"replay"`
}

func (k Key) cacheKey(prefix string) string {
	data, _ := json.Marshal(k)
	return prefix + string(data)
}

// Get retrieves a previously cached token run, returning ErrMiss if absent.
func (c *Cache) Get(ctx context.Context, key Key) ([]token.Token, error) {
	raw, err := c.client.Get(ctx, key.cacheKey(c.config.Prefix)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, xerrors.WrapUpstream(err)
	}

	var strs []*string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, xerrors.WrapUpstream(err)
	}

	out := make([]token.Token, len(strs))
	for i, s := range strs {
		if s == nil {
			out[i] = token.Null()
		} else {
			out[i] = token.Of(*s)
		}
	}
	return out, nil
}

// Set stores tokens under key, replacing the TTL if one is already set.
// ttl of zero uses the cache's DefaultTTL.
func (c *Cache) Set(ctx context.Context, key Key, tokens []token.Token, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	strs := make([]*string, len(tokens))
	for i, t := range tokens {
		if t.IsNull() {
			strs[i] = nil
		} else {
			s := t.String()
			strs[i] = &s
		}
	}

	data, err := json.Marshal(strs)
	if err != nil {
		return xerrors.WrapUpstream(err)
	}

	return xerrors.WrapUpstream(c.client.Set(ctx, key.cacheKey(c.config.Prefix), data, ttl).Err())
}

// Invalidate removes a cached run, e.g. because the corpus it was rendered
// from was deleted or rebuilt.
func (c *Cache) Invalidate(ctx context.Context, key Key) error {
	return xerrors.WrapUpstream(c.client.Del(ctx, key.cacheKey(c.config.Prefix)).Err())
}

// Close closes the underlying Redis client.
func (c *Cache) Close() error { return c.client.Close() }
