package cachedquery

import (
	"testing"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
)

type ordinalComparer struct{}

func (ordinalComparer) Equal(a, b token.Token) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() == b.IsNull()
	}
	return a.String() == b.String()
}

func (ordinalComparer) Compare(a, b token.Token) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	default:
		as, bs := a.String(), b.String()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
}

func (ordinalComparer) Name() string { return "ordinal" }

func tokensOf(ss ...string) []token.Token {
	out := make([]token.Token, len(ss))
	for i, s := range ss {
		out[i] = token.Of(s)
	}
	return out
}

func TestCountMatchesUncachedPen(t *testing.T) {
	corpus := tokensOf("to", "be", "or", "not", "to", "be")
	p := pen.NewPen(corpus, ordinalComparer{})

	c, err := New(p, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got, want := c.Count(tokensOf("to")...), p.Count(tokensOf("to")...); got != want {
		t.Fatalf("Count = %d, want %d", got, want)
	}
	// Second call should hit the cache and still agree.
	if got, want := c.Count(tokensOf("to")...), p.Count(tokensOf("to")...); got != want {
		t.Fatalf("cached Count = %d, want %d", got, want)
	}
}

func TestPositionsOfMatchesUncachedPen(t *testing.T) {
	corpus := tokensOf("to", "be", "or", "not", "to", "be")
	p := pen.NewPen(corpus, ordinalComparer{})

	c, err := New(p, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := c.PositionsOf(tokensOf("to", "be")...)
	want := p.PositionsOf(tokensOf("to", "be")...)
	if len(got) != len(want) {
		t.Fatalf("PositionsOf = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("PositionsOf = %v, want %v", got, want)
		}
	}
}

func TestDistinctPrefixesDoNotCollide(t *testing.T) {
	corpus := tokensOf("a", "b", "a", "b")
	p := pen.NewPen(corpus, ordinalComparer{})

	c, err := New(p, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := c.Count(tokensOf("a")...); got != 2 {
		t.Fatalf("Count([a]) = %d, want 2", got)
	}
	if got := c.Count(tokensOf("b")...); got != 2 {
		t.Fatalf("Count([b]) = %d, want 2", got)
	}
}

func TestPurgeClearsCaches(t *testing.T) {
	corpus := tokensOf("a", "b", "c")
	p := pen.NewPen(corpus, ordinalComparer{})

	c, err := New(p, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Count(tokensOf("a")...)
	c.Purge()

	if got := c.Count(tokensOf("a")...); got != 1 {
		t.Fatalf("Count([a]) after purge = %d, want 1", got)
	}
}

func TestInnerReturnsWrappedPen(t *testing.T) {
	p := pen.NewPen(tokensOf("a"), ordinalComparer{})
	c, err := New(p, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Inner() != p {
		t.Fatal("Inner() did not return the wrapped Pen")
	}
}
