// Package cachedquery memoizes Pen.Count/PositionsOf behind an in-process
// LRU: a render with a small N re-queries the same short suffixes
// constantly, and those queries are read-only and safe to cache for the
// lifetime of an immutable Pen. This is a pure speed layer with no
// persistence semantics — invisible to callers beyond faster repeated
// queries against the same Pen instance.
package cachedquery

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
)

// Pen wraps a *pen.Pen, memoizing Count and PositionsOf by prefix. Render
// and the other Pen methods are not affected; only the two query methods
// are cached.
type Pen struct {
	inner *pen.Pen

	mu         sync.Mutex
	countCache *lru.Cache
	posCache   *lru.Cache
}

// New wraps p with an LRU of the given size for each of Count and
// PositionsOf. size must be > 0.
func New(p *pen.Pen, size int) (*Pen, error) {
	countCache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	posCache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Pen{inner: p, countCache: countCache, posCache: posCache}, nil
}

func prefixKey(prefix []token.Token) string {
	var b strings.Builder
	for _, t := range prefix {
		if t.IsNull() {
			b.WriteString("\x00")
		} else {
			b.WriteString(t.String())
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// Count is pen.Pen.Count, memoized by prefix.
func (c *Pen) Count(prefix ...token.Token) int {
	key := prefixKey(prefix)

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.countCache.Get(key); ok {
		return v.(int)
	}
	n := c.inner.Count(prefix...)
	c.countCache.Add(key, n)
	return n
}

// PositionsOf is pen.Pen.PositionsOf, memoized by prefix. The returned slice
// is shared across callers with the same prefix and must not be mutated.
func (c *Pen) PositionsOf(prefix ...token.Token) []int {
	key := prefixKey(prefix)

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.posCache.Get(key); ok {
		return v.([]int)
	}
	positions := c.inner.PositionsOf(prefix...)
	c.posCache.Add(key, positions)
	return positions
}

// Inner returns the wrapped Pen. Render and the other Pen methods are
// reached through Inner, unmemoized: render's state machine needs the live
// picker invoked every step, caching would change its semantics.
func (c *Pen) Inner() *pen.Pen { return c.inner }

// Purge clears both caches, e.g. for tests asserting on cache miss counts.
func (c *Pen) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countCache.Purge()
	c.posCache.Purge()
}
