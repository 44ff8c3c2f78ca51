package store

import (
	"context"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
)

// PenStore persists and retrieves a Pen's serializable tuple under an
// opaque id. Implementations snapshot a finished Pen; they never become a
// disk-backed index that queries read through.
type PenStore interface {
	// Save writes p's tuple under id, overwriting any previous value.
	Save(ctx context.Context, id string, p *pen.Pen) error
	// Load rebuilds the Pen stored under id, using cmp to validate the
	// stored comparer identity and to drive reconstruction.
	Load(ctx context.Context, id string, cmp token.Comparer) (*pen.Pen, error)
	// Delete removes the tuple stored under id, if any.
	Delete(ctx context.Context, id string) error
	// Close releases the underlying connection.
	Close() error
}

var (
	_ PenStore = (*Postgres)(nil)
	_ PenStore = (*SQLite)(nil)
)
