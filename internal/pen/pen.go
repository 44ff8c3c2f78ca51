// Package pen implements the Pen: an immutable suffix-sorted index over a
// token corpus that answers prefix-range queries in O(k log C) and drives
// the render generator described in spec.md §4.3.
package pen

import (
	"sort"

	"github.com/nullprose/magictext/internal/token"
)

// Pen is a read-only value once constructed: the corpus, the suffix-sorted
// positions array P, the comparator, and the optional sentinel never change
// afterward, so every method may be called concurrently from any number of
// goroutines (spec.md §5).
type Pen struct {
	corpus       []token.Token // insertion order, never reordered
	positions    []int         // P, length C+1, permutation of {0,...,C}
	cmp          token.Comparer
	sentinel     *token.Token // nil means "no sentinel configured"
	interned     bool
	allSentinels bool
}

// Option configures NewPen beyond the required corpus and comparator.
type Option func(*penConfig)

type penConfig struct {
	sentinel *token.Token
	intern   bool
}

// WithSentinel configures the token that terminates Render without emission
// when chosen.
func WithSentinel(t token.Token) Option {
	return func(c *penConfig) { c.sentinel = &t }
}

// WithInterning replaces each non-null corpus token with a canonical shared
// reference before storing it, to reduce memory when duplicates are common.
// It has no effect on comparator-governed equality — interning is a memory
// optimization, not a comparator.
func WithInterning() Option {
	return func(c *penConfig) { c.intern = true }
}

// NewPen builds a Pen over corpus using cmp for all comparisons. The caller's
// slice is copied; corpus is not referenced after construction. cmp must not
// be nil.
func NewPen(corpus []token.Token, cmp token.Comparer, opts ...Option) *Pen {
	if cmp == nil {
		panic("pen: comparer must not be nil")
	}

	cfg := &penConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	local := make([]token.Token, len(corpus))
	copy(local, corpus)
	if cfg.intern {
		internTokens(local)
	}

	c := len(local)
	positions := make([]int, c+1)
	for i := 0; i <= c; i++ {
		positions[i] = i
	}

	p := &Pen{
		corpus:   local,
		cmp:      cmp,
		sentinel: cfg.sentinel,
		interned: cfg.intern,
	}

	sort.Slice(positions, func(i, j int) bool {
		return p.lessSuffix(positions[i], positions[j])
	})
	p.positions = positions

	p.allSentinels = p.computeAllSentinels()

	return p
}

func internTokens(toks []token.Token) {
	seen := make(map[string]token.Token)
	for i, t := range toks {
		if t.IsNull() {
			continue
		}
		s := t.String()
		if canon, ok := seen[s]; ok {
			toks[i] = canon
		} else {
			seen[s] = t
		}
	}
}

func (p *Pen) computeAllSentinels() bool {
	if p.sentinel == nil || len(p.corpus) == 0 {
		return false
	}
	for _, t := range p.corpus {
		if !p.cmp.Equal(t, *p.sentinel) {
			return false
		}
	}
	return true
}

// Len returns the corpus length C.
func (p *Pen) Len() int { return len(p.corpus) }

// AllSentinels reports whether every corpus token equals the sentinel. False
// whenever no sentinel is configured or the corpus is empty.
func (p *Pen) AllSentinels() bool { return p.allSentinels }

// Interned reports whether tokens were canonicalized at construction.
func (p *Pen) Interned() bool { return p.interned }

// Comparer returns the comparator this Pen was built with.
func (p *Pen) Comparer() token.Comparer { return p.cmp }

// Sentinel returns the configured sentinel token and whether one is set.
func (p *Pen) Sentinel() (token.Token, bool) {
	if p.sentinel == nil {
		return token.Token{}, false
	}
	return *p.sentinel, true
}

// Positions returns P, the suffix-sorted permutation of {0,...,C}. The
// returned slice is a copy; callers may not mutate Pen state through it.
func (p *Pen) Positions() []int {
	out := make([]int, len(p.positions))
	copy(out, p.positions)
	return out
}

// Corpus returns a copy of the stored corpus in original insertion order.
func (p *Pen) Corpus() []token.Token {
	out := make([]token.Token, len(p.corpus))
	copy(out, p.corpus)
	return out
}

// isSentinel reports whether t equals the configured sentinel.
func (p *Pen) isSentinel(t token.Token) bool {
	return p.sentinel != nil && p.cmp.Equal(t, *p.sentinel)
}

// tokenAt returns the corpus token at the given suffix position, or the
// error value for "past the end" via the second return being false.
func (p *Pen) tokenAt(pos int) (token.Token, bool) {
	if pos == len(p.corpus) {
		return token.Token{}, false
	}
	return p.corpus[pos], true
}
