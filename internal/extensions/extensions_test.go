package extensions

import (
	"context"
	"testing"

	"github.com/nullprose/magictext/internal/shatter"
)

func TestToSliceDrainsSeq(t *testing.T) {
	tz := shatter.New(shatter.WhitespaceStrategy{})
	opts := shatter.DefaultOptions()
	seq := tz.Shatter(StringReader("to be or not to be"), &opts)

	got := ToSlice(seq)
	if len(got) != 6 {
		t.Fatalf("len(ToSlice(seq)) = %d, want 6", len(got))
	}
	if got[0].String() != "to" || got[5].String() != "be" {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

func TestToSliceAsyncDrainsChannel(t *testing.T) {
	tz := shatter.New(shatter.WhitespaceStrategy{})
	opts := shatter.DefaultOptions()
	ctx := context.Background()
	items := tz.ShatterAsync(ctx, StringReader("a b c"), &opts, false)

	got, err := ToSliceAsync(ctx, items)
	if err != nil {
		t.Fatalf("ToSliceAsync returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
}

func TestToSliceAsyncRespectsCancellation(t *testing.T) {
	tz := shatter.New(shatter.WhitespaceStrategy{})
	opts := shatter.DefaultOptions()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := tz.ShatterAsync(ctx, StringReader("a b c d e f g"), &opts, false)
	_, err := ToSliceAsync(ctx, items)
	if err == nil {
		t.Fatal("expected context error from ToSliceAsync after cancellation")
	}
}

func TestStringReaderRoundTrip(t *testing.T) {
	r := StringReader("hello")
	buf := make([]byte, 5)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("got %q, want %q", buf[:n], "hello")
	}
}
