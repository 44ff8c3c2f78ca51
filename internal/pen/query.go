package pen

import "github.com/nullprose/magictext/internal/token"

// Count returns the number of corpus positions whose suffix begins with
// prefix. Count() (empty prefix) is always C+1.
func (p *Pen) Count(prefix ...token.Token) int {
	lo, hi := p.Range(prefix)
	return hi - lo
}

// PositionsOf returns the corpus positions whose suffix begins with prefix,
// in suffix-sorted order (i.e. the order P stores them in, not corpus
// order). PositionsOf() (empty prefix) yields every value in {0,...,C}
// exactly once.
func (p *Pen) PositionsOf(prefix ...token.Token) []int {
	lo, hi := p.Range(prefix)
	out := make([]int, hi-lo)
	copy(out, p.positions[lo:hi])
	return out
}
