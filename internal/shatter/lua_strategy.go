package shatter

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// LuaStrategy hosts a user-supplied Lua script implementing ShatterLine, for
// users who want a custom per-line strategy without recompiling the binary.
// This is the one concrete LineShatterer this package ships that isn't
// fixed at compile time — spec.md §2 scopes concrete strategies out of the
// core "beyond the per-line shatter contract they must satisfy," and
// LuaStrategy is the enforcement of that contract against an arbitrary
// script instead of arbitrary Go code.
//
// The script must define a global function:
//
//	function shatter_line(line)
//	    -- return a Lua table of strings
//	end
//
// Calls are serialized: *lua.LState is not safe for concurrent use, so
// ShatterLine and Close hold an internal mutex and a single LuaStrategy
// instance may be shared across goroutines (matches spec.md §5's "tokenizer instance is thread-safe
// if its supplied strategy is").
type LuaStrategy struct {
	mu    sync.Mutex
	state *lua.LState
}

// NewLuaStrategy loads script and validates that it defines shatter_line.
func NewLuaStrategy(script string) (*LuaStrategy, error) {
	l := lua.NewState()
	if err := l.DoString(script); err != nil {
		l.Close()
		return nil, xerrors.Invalidf("script", "lua script failed to load: %v", err)
	}
	fn := l.GetGlobal("shatter_line")
	if fn.Type() != lua.LTFunction {
		l.Close()
		return nil, xerrors.Invalidf("script", "lua script must define shatter_line(line)")
	}
	return &LuaStrategy{state: l}, nil
}

// Close releases the underlying Lua VM.
func (s *LuaStrategy) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
}

func (s *LuaStrategy) ShatterLine(line string) []token.Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn := s.state.GetGlobal("shatter_line")
	if err := s.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(line)); err != nil {
		panic(fmt.Sprintf("shatter: lua shatter_line errored: %v", err))
	}

	ret := s.state.Get(-1)
	s.state.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		if line == "" {
			return nil
		}
		panic("shatter: lua shatter_line must return a table of strings")
	}

	var out []token.Token
	n := tbl.Len()
	for i := 1; i <= n; i++ {
		v := tbl.RawGetInt(i)
		if v == lua.LNil {
			out = append(out, token.Null())
			continue
		}
		out = append(out, token.Of(v.String()))
	}
	return out
}
