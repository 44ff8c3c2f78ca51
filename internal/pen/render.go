package pen

import (
	"iter"

	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// Picker deterministically maps a range size n to a choice r in
// [0, max(n, 1)). It models a (pseudo-)random draw: the render state machine
// is a pure function of the corpus plus the sequence of values Picker
// returns.
type Picker func(n int) int

// Render returns a lazy, potentially infinite sequence of tokens generated
// by the algorithm in spec.md §4.3.4: at each step, compute the range of the
// current suffix (of length at most n), let pick choose one occurrence of
// it, and look at the token that follows that occurrence: terminate if it is
// past the end of the corpus or the sentinel, otherwise emit it and continue.
//
// n must be >= 0 and pick must not be nil; both are checked when Render is
// called. pick must return a value in [0, max(m, 1)) for every m it is called
// with; that is checked from within enumeration, at the point of use —
// constructing the returned sequence never calls pick.
func (p *Pen) Render(n int, pick Picker) iter.Seq[token.Token] {
	if n < 0 {
		panic(xerrors.Invalidf("n", "render: n must be >= 0, got %d", n))
	}
	if pick == nil {
		panic("pen: render: pick must not be nil")
	}

	return func(yield func(token.Token) bool) {
		if p.allSentinels {
			return
		}

		suffix := make([]token.Token, 0, n)
		for {
			lo, hi := p.Range(suffix)
			m := hi - lo // always >= 1: the empty suffix matches every position

			r := pick(m)
			if r < 0 || r >= max(m, 1) {
				panic(xerrors.Invalidf("pick", "render: picker returned %d, want value in [0, %d)", r, max(m, 1)))
			}

			chosen := p.positions[lo+r]
			tok, ok := p.tokenAt(chosen + len(suffix))
			if !ok {
				// Past-the-end position picked: terminate, no emission.
				return
			}
			if p.isSentinel(tok) {
				// Sentinel chosen: terminate, not emitted.
				return
			}

			if !yield(tok) {
				return
			}

			suffix = append(suffix, tok)
			if len(suffix) > n {
				suffix = suffix[1:]
			}
		}
	}
}
