// Package shatter implements the line-oriented streaming tokenizer that
// feeds the Pen: it drives line-by-line reads, delegates per-line splitting
// to a LineShatterer strategy, and applies Options (empty-token, line-end,
// empty-line policy) uniformly regardless of the strategy in use.
package shatter

import (
	"bufio"
	"context"
	"io"
	"iter"

	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// LineShatterer splits a single line into tokens. Implementations must
// satisfy the per-line contract from spec.md §4.2:
//   - ShatterLine is only ever called with a line containing no line-end
//     character;
//   - it must not emit line-end or empty-line markers itself;
//   - it must not filter empty tokens — the Tokenizer does that;
//   - an empty input line must produce a zero-length result.
type LineShatterer interface {
	ShatterLine(line string) []token.Token
}

// LineShattererFunc adapts a plain function to LineShatterer.
type LineShattererFunc func(line string) []token.Token

func (f LineShattererFunc) ShatterLine(line string) []token.Token { return f(line) }

// IsEmptyTokenFunc reports whether a token counts as "empty" for
// IgnoreEmptyTokens filtering.
type IsEmptyTokenFunc func(token.Token) bool

// DefaultIsEmptyToken is "token is null or has length zero."
func DefaultIsEmptyToken(t token.Token) bool {
	return t.IsNull() || t.StringOr("") == ""
}

// Tokenizer drives a LineShatterer strategy over a line-oriented input.
type Tokenizer struct {
	Strategy     LineShatterer
	IsEmptyToken IsEmptyTokenFunc
}

// New builds a Tokenizer for the given strategy, defaulting IsEmptyToken to
// DefaultIsEmptyToken.
func New(strategy LineShatterer) *Tokenizer {
	return &Tokenizer{Strategy: strategy, IsEmptyToken: DefaultIsEmptyToken}
}

// WithIsEmptyToken returns a copy of t using pred instead of the default
// empty-token predicate.
func (t *Tokenizer) WithIsEmptyToken(pred IsEmptyTokenFunc) *Tokenizer {
	cp := *t
	cp.IsEmptyToken = pred
	return &cp
}

func (t *Tokenizer) isEmptyToken(tok token.Token) bool {
	if t.IsEmptyToken == nil {
		return DefaultIsEmptyToken(tok)
	}
	return t.IsEmptyToken(tok)
}

func (t *Tokenizer) shatterAndFilter(line string, o Options) []token.Token {
	raw := t.Strategy.ShatterLine(line)
	if !o.IgnoreEmptyTokens {
		return raw
	}
	filtered := make([]token.Token, 0, len(raw))
	for _, tok := range raw {
		if !t.isEmptyToken(tok) {
			filtered = append(filtered, tok)
		}
	}
	return filtered
}

// lineItems applies the line-end / empty-line policy (spec.md §4.2 steps
// 1-3) to one already-shattered-and-filtered line, returning the tokens (and
// any synthetic markers) to emit in order, plus the updated emittedAnyLine
// state threaded to the next line.
func lineItems(tokens []token.Token, o Options, emittedAnyLine bool) (items []token.Token, nextEmitted bool) {
	if len(tokens) == 0 {
		if o.IgnoreEmptyLines {
			return nil, emittedAnyLine
		}
		if emittedAnyLine && !o.IgnoreLineEnds {
			items = append(items, o.LineEndToken)
		}
		items = append(items, o.EmptyLineToken)
		return items, true
	}

	if emittedAnyLine && !o.IgnoreLineEnds {
		items = append(items, o.LineEndToken)
	}
	items = append(items, tokens...)
	return items, true
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

// Shatter returns a synchronous lazy sequence of tokens read from r. Passing
// nil opts uses DefaultOptions. r must not be nil; that is a programming
// error and panics immediately, before any input is read, the same way a
// nil-pointer dereference would — construction of the sequence itself does
// no I/O, only iterating it does. Upstream I/O errors from r are not
// observable through this method; use ShatterErr when that matters.
func (t *Tokenizer) Shatter(r io.Reader, opts *Options) iter.Seq[token.Token] {
	return t.ShatterErr(r, opts, nil)
}

// ShatterErr is Shatter plus an out-of-band error report for upstream I/O
// failures, since iter.Seq[token.Token] alone has nowhere to carry one.
// errp, if non-nil, is set once the sequence is fully drained (or abandoned
// early), mirroring "any I/O or decoding error from the input reader is
// propagated unchanged."
func (t *Tokenizer) ShatterErr(r io.Reader, opts *Options, errp *error) iter.Seq[token.Token] {
	if r == nil {
		panic("shatter: input reader must not be nil")
	}
	o := orDefault(opts)

	return func(yield func(token.Token) bool) {
		scanner := newLineScanner(r)
		emittedAnyLine := false
		for scanner.Scan() {
			tokens := t.shatterAndFilter(scanner.Text(), o)
			var items []token.Token
			items, emittedAnyLine = lineItems(tokens, o, emittedAnyLine)
			for _, item := range items {
				if !yield(item) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil && errp != nil {
			*errp = xerrors.WrapUpstream(err)
		}
	}
}

// Item is one element of an async shatter stream: either a token, or a
// terminal error (Cancelled or Upstream), never both.
type Item struct {
	Token token.Token
	Err   error
}

// ShatterAsync returns a channel-based async lazy sequence. ctx is polled
// for cancellation immediately before each line read and before each
// yielded token; on cancellation the stream ends with a single Cancelled
// Item, tokens already sent are retained by the consumer.
//
// continueOnCapturedContext mirrors the source ecosystem's async-sequence
// flag of the same name: when true, the producer goroutine is given a
// one-slot buffer so a send can complete (and the producer move on to poll
// cancellation again) without waiting for the consumer to already be
// blocked on a receive — approximating "resume promptly on whatever context
// picks the value up" rather than strict back-pressure. When false, the
// channel is unbuffered and each token's send is a full rendezvous with the
// consumer.
func (t *Tokenizer) ShatterAsync(ctx context.Context, r io.Reader, opts *Options, continueOnCapturedContext bool) <-chan Item {
	if r == nil {
		panic("shatter: input reader must not be nil")
	}
	o := orDefault(opts)
	bufSize := 0
	if continueOnCapturedContext {
		bufSize = 1
	}
	out := make(chan Item, bufSize)

	go func() {
		defer close(out)
		scanner := newLineScanner(r)

		send := func(tok token.Token) bool {
			select {
			case <-ctx.Done():
				out <- Item{Err: xerrors.Cancelledf("shatter: %v", ctx.Err())}
				return false
			case out <- Item{Token: tok}:
				return true
			}
		}

		emittedAnyLine := false
		for {
			select {
			case <-ctx.Done():
				out <- Item{Err: xerrors.Cancelledf("shatter: %v", ctx.Err())}
				return
			default:
			}

			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					out <- Item{Err: xerrors.WrapUpstream(err)}
				}
				return
			}

			tokens := t.shatterAndFilter(scanner.Text(), o)
			var items []token.Token
			items, emittedAnyLine = lineItems(tokens, o, emittedAnyLine)
			for _, item := range items {
				if !send(item) {
					return
				}
			}
		}
	}()

	return out
}
