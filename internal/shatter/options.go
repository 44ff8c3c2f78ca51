package shatter

import (
	"os"

	"github.com/nullprose/magictext/internal/token"
)

// Options carries the five knobs controlling Tokenizer output. The zero
// value is not the default — use DefaultOptions.
type Options struct {
	// IgnoreEmptyTokens filters tokens the IsEmptyToken predicate flags.
	IgnoreEmptyTokens bool
	// IgnoreLineEnds suppresses the synthetic line-end token between lines.
	IgnoreLineEnds bool
	// IgnoreEmptyLines suppresses lines that shatter to zero tokens
	// entirely, including their line-end marker, instead of emitting
	// EmptyLineToken in their place.
	IgnoreEmptyLines bool
	// LineEndToken is yielded between non-first lines when IgnoreLineEnds
	// is false.
	LineEndToken token.Token
	// EmptyLineToken is yielded in place of a line that shattered to zero
	// tokens, when IgnoreEmptyLines is false.
	EmptyLineToken token.Token
}

// DefaultOptions returns {false, false, false, platform newline, ""}.
func DefaultOptions() Options {
	return Options{
		LineEndToken:   token.Of(platformNewline),
		EmptyLineToken: token.Of(""),
	}
}

var platformNewline = func() string {
	if os.PathSeparator == '\\' {
		return "\r\n"
	}
	return "\n"
}()

// orDefault returns opts if non-nil, otherwise DefaultOptions().
func orDefault(opts *Options) Options {
	if opts == nil {
		return DefaultOptions()
	}
	return *opts
}
