package renderpool

import (
	"context"
	"testing"
	"time"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/picker"
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

func (ordinalComparer) Name() string { return "ordinal" }

func tokensOf(ss ...string) []token.Token {
	out := make([]token.Token, len(ss))
	for i, s := range ss {
		out[i] = token.Of(s)
	}
	return out
}

func TestRunAllPreservesOrder(t *testing.T) {
	p := pen.NewPen(tokensOf("a", "b", "c", "d"), ordinalComparer{})

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{Pen: p, N: 1, Pick: picker.Seeded(int64(i))}
	}

	rp := New(2)
	results := rp.RunAll(context.Background(), jobs)

	if len(results) != len(jobs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("results[%d].Index = %d, want %d", i, r.Index, i)
		}
		if r.Err != nil {
			t.Fatalf("results[%d].Err = %v, want nil", i, r.Err)
		}
	}
}

func TestRunAllRespectsMaxGoroutines(t *testing.T) {
	p := pen.NewPen(tokensOf("a", "b"), ordinalComparer{})

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{Pen: p, N: 0, Pick: picker.Seeded(int64(i))}
	}

	rp := New(3)
	results := rp.RunAll(context.Background(), jobs)
	if len(results) != 20 {
		t.Fatalf("len(results) = %d, want 20", len(results))
	}
}

func TestShutdownReturnsOnceIdle(t *testing.T) {
	rp := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := rp.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown on an idle pool errored: %v", err)
	}
}

func TestShutdownRespectsContextCancellation(t *testing.T) {
	rp := New(1)
	rp.trackStart()
	defer rp.trackDone()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := rp.Shutdown(ctx); err == nil {
		t.Fatal("expected Shutdown to return an error when the pool never goes idle in time")
	}
}
