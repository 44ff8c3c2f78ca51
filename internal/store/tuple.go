// Package store persists the serializable tuple of a constructed Pen
// (interned flag, comparer identity, P, corpus, sentinel, allSentinels) so a
// CLI or server process can hand a Pen to another process without re-reading
// the source corpus. Persistence is a snapshot of a finished Pen, never a
// disk-backed index that queries fall through to live.
package store

import (
	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// Tuple is the wire/row representation of a Pen. Corpus and Sentinel entries
// use a nil *string for a null token, matching token.Token's null/empty
// distinction; a non-nil empty string is the empty string token.
type Tuple struct {
	Comparer     string    `json:"comparer"`
	Corpus       []*string `json:"corpus"`
	Positions    []int     `json:"positions"`
	Sentinel     *string   `json:"sentinel,omitempty"`
	HasSentinel  bool      `json:"has_sentinel"`
	Interned     bool      `json:"interned"`
	AllSentinels bool      `json:"all_sentinels"`
}

func tokenToPtr(t token.Token) *string {
	if t.IsNull() {
		return nil
	}
	s := t.String()
	return &s
}

func ptrToToken(p *string) token.Token {
	if p == nil {
		return token.Null()
	}
	return token.Of(*p)
}

// Encode captures p's serializable tuple. P is carried alongside the corpus
// for cheap integrity checks on Decode, even though Decode rebuilds P from
// scratch rather than trusting the stored copy.
func Encode(p *pen.Pen) Tuple {
	corpus := p.Corpus()
	out := Tuple{
		Comparer:     p.Comparer().Name(),
		Corpus:       make([]*string, len(corpus)),
		Positions:    p.Positions(),
		Interned:     p.Interned(),
		AllSentinels: p.AllSentinels(),
	}
	for i, t := range corpus {
		out.Corpus[i] = tokenToPtr(t)
	}
	if sentinel, ok := p.Sentinel(); ok {
		out.HasSentinel = true
		out.Sentinel = tokenToPtr(sentinel)
	}
	return out
}

// Decode rebuilds a Pen from a Tuple. cmp must be the comparer named by
// Tuple.Comparer (the caller resolves the name via token.ByName; Decode does
// not import a comparer registry itself to avoid a store -> token.ByName ->
// every-comparer dependency cycle risk as more comparers are added).
//
// Decode reconstructs P by re-running NewPen's sort rather than trusting the
// stored Positions, since Positions is a pure function of (corpus, cmp,
// sentinel, interned) and trusting untrusted storage for it would let a
// corrupted row silently desync P from the corpus it indexes.
func Decode(t Tuple, cmp token.Comparer) (*pen.Pen, error) {
	if cmp == nil {
		return nil, xerrors.Invalidf("cmp", "store: decode: comparer must not be nil")
	}
	if cmp.Name() != t.Comparer {
		return nil, xerrors.Invalidf("cmp", "store: decode: tuple was encoded with comparer %q, got %q", t.Comparer, cmp.Name())
	}

	corpus := make([]token.Token, len(t.Corpus))
	for i, p := range t.Corpus {
		corpus[i] = ptrToToken(p)
	}

	var opts []pen.Option
	if t.Interned {
		opts = append(opts, pen.WithInterning())
	}
	if t.HasSentinel {
		opts = append(opts, pen.WithSentinel(ptrToToken(t.Sentinel)))
	}

	rebuilt := pen.NewPen(corpus, cmp, opts...)

	if len(t.Positions) > 0 && !equalPositions(rebuilt.Positions(), t.Positions) {
		return nil, xerrors.Statef("store: decode: stored positions do not match the recomputed suffix order; row is corrupt")
	}

	return rebuilt, nil
}

func equalPositions(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
