// Package extensions holds small adapters around shatter and pen that don't
// belong on either type directly: materializing a lazy sequence into a
// slice, and feeding an in-memory string through the io.Reader the
// Tokenizer expects.
package extensions

import (
	"context"
	"iter"
	"strings"

	"github.com/nullprose/magictext/internal/shatter"
	"github.com/nullprose/magictext/internal/token"
)

// ToSlice drains seq into a slice. Intended for pen.Render and
// shatter.Tokenizer.Shatter results in callers that don't need streaming.
func ToSlice(seq iter.Seq[token.Token]) []token.Token {
	var out []token.Token
	for tok := range seq {
		out = append(out, tok)
	}
	return out
}

// ToSliceAsync drains a ShatterAsync channel into a slice, returning the
// first error observed on any Item. It stops draining as soon as ctx is
// done, same as the producer side would.
func ToSliceAsync(ctx context.Context, items <-chan shatter.Item) ([]token.Token, error) {
	var out []token.Token
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case item, ok := <-items:
			if !ok {
				return out, nil
			}
			if item.Err != nil {
				return out, item.Err
			}
			out = append(out, item.Token)
		}
	}
}

// StringReader returns an io.Reader over s, for callers building a Pen or
// Tokenizer directly from an in-memory string rather than a file handle.
func StringReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
