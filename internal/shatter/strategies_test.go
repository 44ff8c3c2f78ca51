package shatter

import (
	"slices"
	"testing"

	"github.com/nullprose/magictext/internal/token"
)

func tokenStrings(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.StringOr("<null>")
	}
	return out
}

func TestCharacterStrategy(t *testing.T) {
	got := tokenStrings(CharacterStrategy{}.ShatterLine("aaaabaaac"))
	want := []string{"a", "a", "a", "a", "b", "a", "a", "a", "c"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCharacterStrategyEmptyLine(t *testing.T) {
	if got := CharacterStrategy{}.ShatterLine(""); len(got) != 0 {
		t.Fatalf("expected zero tokens for empty line, got %v", got)
	}
}

func TestWholeLineStrategy(t *testing.T) {
	got := tokenStrings(WholeLineStrategy{}.ShatterLine("hello world"))
	if !slices.Equal(got, []string{"hello world"}) {
		t.Fatalf("got %v", got)
	}
	if got := WholeLineStrategy{}.ShatterLine(""); len(got) != 0 {
		t.Fatalf("expected zero tokens for empty line, got %v", got)
	}
}

func TestWhitespaceStrategy(t *testing.T) {
	got := tokenStrings(WhitespaceStrategy{}.ShatterLine("  the  quick brown "))
	want := []string{"the", "quick", "brown"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRegexStrategy(t *testing.T) {
	s, err := NewRegexStrategy(`[,;]\s*`)
	if err != nil {
		t.Fatal(err)
	}
	got := tokenStrings(s.ShatterLine("a, b; c"))
	want := []string{"a", "b", "c"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := s.ShatterLine(""); len(got) != 0 {
		t.Fatalf("expected zero tokens for empty line, got %v", got)
	}
}

func TestNewRegexStrategyInvalidPattern(t *testing.T) {
	if _, err := NewRegexStrategy("("); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}
