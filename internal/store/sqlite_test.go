package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullprose/magictext/internal/token"
)

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pens.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	cmp, _ := token.ByName(token.Ordinal)
	p := newTestPen(t, cmp)

	require.NoError(t, s.Save(ctx, "demo", p))

	restored, err := s.Load(ctx, "demo", cmp)
	require.NoError(t, err)
	assert.Equal(t, p.Positions(), restored.Positions())
}

func TestSQLiteSaveOverwritesExistingID(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pens.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	cmp, _ := token.ByName(token.Ordinal)
	first := newTestPen(t, cmp)
	require.NoError(t, s.Save(ctx, "demo", first))

	second, err := Decode(Encode(first), cmp)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "demo", second))

	_, err = s.Load(ctx, "demo", cmp)
	require.NoError(t, err)
}

func TestSQLiteLoadMissingIDErrors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pens.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	cmp, _ := token.ByName(token.Ordinal)
	_, err = s.Load(ctx, "nope", cmp)
	require.Error(t, err)
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pens.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	cmp, _ := token.ByName(token.Ordinal)
	p := newTestPen(t, cmp)
	require.NoError(t, s.Save(ctx, "demo", p))
	require.NoError(t, s.Delete(ctx, "demo"))

	_, err = s.Load(ctx, "demo", cmp)
	require.Error(t, err)
}
