package token

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparer supplies equality and a total ordering over Tokens that must agree
// with each other: Equal(a, b) must hold iff Compare(a, b) == 0. All Pen
// queries and the suffix-at-position sort go through a Comparer rather than
// Go's built-in string equality, so the corpus can be compared ordinally,
// case-insensitively, or under any caller-supplied rule.
type Comparer interface {
	// Equal reports whether a and b are the same token under this comparer.
	// The null token is only ever equal to the null token.
	Equal(a, b Token) bool
	// Compare returns <0, 0, >0 as a sorts before, the same as, or after b.
	// The null token sorts before every non-null token.
	Compare(a, b Token) int
	// Name identifies a well-known comparer for persistence round-tripping.
	// Custom comparers should return "" and be restored via an explicit
	// converter at deserialization time.
	Name() string
}

// Well-known comparer names, stable across versions for serialization.
const (
	Ordinal             = "ordinal"
	OrdinalIgnoreCase   = "ordinal-ignore-case"
	Invariant           = "invariant"
	InvariantIgnoreCase = "invariant-ignore-case"
)

// ByName resolves one of the well-known comparer identities. It reports false
// for any name that isn't one of the four built-ins, including the empty
// string used to mark custom comparers.
func ByName(name string) (Comparer, bool) {
	switch name {
	case Ordinal:
		return ordinalComparer{}, true
	case OrdinalIgnoreCase:
		return ordinalIgnoreCaseComparer{}, true
	case Invariant:
		return invariantComparer{}, true
	case InvariantIgnoreCase:
		return invariantIgnoreCaseComparer{}, true
	default:
		return nil, false
	}
}

// nullRank orders the null token before any non-null token, and returns 0,
// false when neither side is null so the caller falls through to its own
// comparison of the unwrapped strings.
func nullRank(a, b Token) (rank int, decided bool) {
	switch {
	case a.null && b.null:
		return 0, true
	case a.null:
		return -1, true
	case b.null:
		return 1, true
	default:
		return 0, false
	}
}

// ordinalComparer compares the raw UTF-8 bytes, like C#'s string.CompareOrdinal.
type ordinalComparer struct{}

func (ordinalComparer) Equal(a, b Token) bool {
	if a.null || b.null {
		return a.null == b.null
	}
	return a.value == b.value
}

func (ordinalComparer) Compare(a, b Token) int {
	if r, ok := nullRank(a, b); ok {
		return r
	}
	return strings.Compare(a.value, b.value)
}

func (ordinalComparer) Name() string { return Ordinal }

// ordinalIgnoreCaseComparer folds ASCII and Unicode case before an ordinal
// compare, via golang.org/x/text/cases rather than strings.ToLower so that
// non-ASCII case folding (e.g. Turkish dotless i, German ß) behaves per
// Unicode case-folding rules instead of byte-wise folding.
type ordinalIgnoreCaseComparer struct{}

// foldKey allocates a fresh Caser per call: cases.Caser.String mutates an
// internal transform buffer and is not safe for concurrent use, and Pens
// are shared across goroutines (spec §5).
func foldKey(s string) string {
	return cases.Fold().String(s)
}

func (ordinalIgnoreCaseComparer) Equal(a, b Token) bool {
	if a.null || b.null {
		return a.null == b.null
	}
	return foldKey(a.value) == foldKey(b.value)
}

func (ordinalIgnoreCaseComparer) Compare(a, b Token) int {
	if r, ok := nullRank(a, b); ok {
		return r
	}
	return strings.Compare(foldKey(a.value), foldKey(b.value))
}

func (ordinalIgnoreCaseComparer) Name() string { return OrdinalIgnoreCase }

// invariantCollatorPool hands out Unicode Default Collation (language.Und)
// collators, language-neutral rather than byte-ordinal, mirroring .NET's
// culture-invariant string comparison. collate.Collator.CompareString
// mutates an internal buffer and is not safe for concurrent use, and Pens
// are shared across goroutines (spec §5), so each comparison borrows one
// from the pool instead of sharing a single package-level collator.
var invariantCollatorPool = sync.Pool{
	New: func() any { return collate.New(language.Und) },
}

func compareInvariant(a, b string) int {
	c := invariantCollatorPool.Get().(*collate.Collator)
	defer invariantCollatorPool.Put(c)
	return c.CompareString(a, b)
}

// invariantComparer orders by Unicode collation; equality still requires an
// exact string match (collation weight ties, e.g. base letter vs. accented
// forms at primary strength, are not conflated with token identity).
type invariantComparer struct{}

func (invariantComparer) Equal(a, b Token) bool {
	if a.null || b.null {
		return a.null == b.null
	}
	return a.value == b.value
}

func (invariantComparer) Compare(a, b Token) int {
	if r, ok := nullRank(a, b); ok {
		return r
	}
	return compareInvariant(a.value, b.value)
}

func (invariantComparer) Name() string { return Invariant }

// invariantIgnoreCaseComparer combines invariant collation with Unicode case
// folding.
type invariantIgnoreCaseComparer struct{}

func (invariantIgnoreCaseComparer) Equal(a, b Token) bool {
	if a.null || b.null {
		return a.null == b.null
	}
	return foldKey(a.value) == foldKey(b.value)
}

func (invariantIgnoreCaseComparer) Compare(a, b Token) int {
	if r, ok := nullRank(a, b); ok {
		return r
	}
	return compareInvariant(foldKey(a.value), foldKey(b.value))
}

func (invariantIgnoreCaseComparer) Name() string { return InvariantIgnoreCase }
