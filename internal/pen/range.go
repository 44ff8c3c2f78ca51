package pen

import (
	"sort"

	"github.com/nullprose/magictext/internal/token"
)

// comparePrefix compares the suffix at corpus position pos against query Q,
// stopping at depth len(q): returns <0 if suffix-at-pos sorts before any
// suffix starting with Q, >0 if after, 0 if suffix-at-pos begins with Q.
// This is the same tie-break rules as compareSuffix, truncated to k terms.
func (p *Pen) comparePrefix(pos int, q []token.Token) int {
	c := len(p.corpus)
	for i, qt := range q {
		idx := pos + i
		if idx >= c {
			// Suffix ran out before Q did: suffix is a proper prefix of Q,
			// so it sorts before (shorter suffix tie-break).
			return -1
		}
		ct := p.corpus[idx]
		switch {
		case p.isSentinel(ct) && p.isSentinel(qt):
			continue
		case p.isSentinel(ct):
			return -1
		case p.isSentinel(qt):
			return 1
		default:
			if c := p.cmp.Compare(ct, qt); c != 0 {
				return c
			}
		}
	}
	return 0
}

// Range returns [lo, hi): the contiguous interval in P whose positions'
// suffixes begin with q. An empty q yields [0, C+1). A non-occurring q
// yields an empty range (lo == hi). Cost is O(len(q) * log C).
func (p *Pen) Range(q []token.Token) (lo, hi int) {
	n := len(p.positions)
	lo = sort.Search(n, func(i int) bool { return p.comparePrefix(p.positions[i], q) >= 0 })
	hi = sort.Search(n, func(i int) bool { return p.comparePrefix(p.positions[i], q) > 0 })
	return lo, hi
}
