package shatter

import (
	"regexp"
	"strings"

	"github.com/nullprose/magictext/internal/token"
)

// WhitespaceStrategy splits a line on runs of Unicode whitespace, the same
// delegate shape as Go's strings.Fields but returning Tokens.
type WhitespaceStrategy struct{}

func (WhitespaceStrategy) ShatterLine(line string) []token.Token {
	fields := strings.Fields(line)
	out := make([]token.Token, len(fields))
	for i, f := range fields {
		out[i] = token.Of(f)
	}
	return out
}

// CharacterStrategy splits a line into one token per rune — the "whole
// character split" strategy from spec.md §1, used for e.g. S1's
// character-level corpus.
type CharacterStrategy struct{}

func (CharacterStrategy) ShatterLine(line string) []token.Token {
	runes := []rune(line)
	out := make([]token.Token, len(runes))
	for i, r := range runes {
		out[i] = token.Of(string(r))
	}
	return out
}

// WholeLineStrategy treats the entire line as a single token — the
// "identity" strategy spec.md §8 property 9 uses to test tokenizer closure.
// An empty line still yields zero tokens (it is never represented as a
// single empty-string token), matching the per-line contract's "empty input
// line must produce an empty output iterable."
type WholeLineStrategy struct{}

func (WholeLineStrategy) ShatterLine(line string) []token.Token {
	if line == "" {
		return nil
	}
	return []token.Token{token.Of(line)}
}

// RegexStrategy splits a line on matches of a regular expression, the
// delegate tokens being the non-matching spans between separators — e.g.
// `\s+` splits like WhitespaceStrategy except that leading or trailing
// whitespace yields an empty token at that end, `[.,!?]` splits on
// punctuation.
type RegexStrategy struct {
	Split *regexp.Regexp
}

// NewRegexStrategy compiles pattern as the split expression.
func NewRegexStrategy(pattern string) (*RegexStrategy, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexStrategy{Split: re}, nil
}

func (s *RegexStrategy) ShatterLine(line string) []token.Token {
	if line == "" {
		return nil
	}
	parts := s.Split.Split(line, -1)
	out := make([]token.Token, len(parts))
	for i, p := range parts {
		out[i] = token.Of(p)
	}
	return out
}
