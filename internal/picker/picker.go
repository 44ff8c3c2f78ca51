// Package picker supplies pen.Picker implementations for callers that don't
// want to hand-write their own: a seeded pseudo-random draw, a replay of a
// previously recorded draw sequence, and a recorder that wraps any picker to
// capture the sequence it produced.
package picker

import (
	"math/rand"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/xerrors"
)

// Seeded returns a Picker drawing uniformly from [0, max(n,1)) using a
// math/rand source seeded with seed. The same seed always produces the same
// sequence of draws for the same sequence of range sizes.
func Seeded(seed int64) pen.Picker {
	r := rand.New(rand.NewSource(seed))
	return func(n int) int {
		return r.Intn(max(n, 1))
	}
}

// Replay returns a Picker that returns values[0], values[1], ... in order,
// ignoring n, for reproducing a previously recorded render run exactly.
// Calling it more times than len(values) panics with a State error: a
// replay picker has no more history than what it recorded.
func Replay(values []int) pen.Picker {
	i := 0
	return func(n int) int {
		if i >= len(values) {
			panic(xerrors.Statef("picker: replay exhausted after %d draws", len(values)))
		}
		v := values[i]
		i++
		return v
	}
}

// Recording wraps inner, returning a Picker that behaves identically while
// appending every value inner returns to the slice recorded points at. The
// caller reads *recorded after the render completes to get the full replay
// sequence, suitable for rendercache.Key.Replay or a later Replay call.
func Recording(inner pen.Picker) (wrapped pen.Picker, recorded *[]int) {
	var history []int
	wrapped = func(n int) int {
		r := inner(n)
		history = append(history, r)
		return r
	}
	return wrapped, &history
}
