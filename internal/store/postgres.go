package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" sql/database driver

	"github.com/nullprose/magictext/internal/logging"
	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// Postgres is a PenStore backed by a Postgres table, one row per id, the
// tuple stored as a JSONB column.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to dsn via the pgx stdlib driver and ensures the
// pens table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, xerrors.WrapUpstream(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, xerrors.WrapUpstream(err)
	}

	p := &Postgres{db: db}
	if err := p.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresFromDB wraps an already-open *sql.DB, for callers that manage
// the pool's lifecycle themselves (and for tests against go-sqlmock, which
// produces a *sql.DB with no real server behind it).
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) migrate(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS pens (
		id TEXT PRIMARY KEY,
		tuple JSONB NOT NULL
	)`
	_, err := p.db.ExecContext(ctx, ddl)
	return xerrors.WrapUpstream(err)
}

func (p *Postgres) Save(ctx context.Context, id string, pn *pen.Pen) error {
	tuple := Encode(pn)
	data, err := json.Marshal(tuple)
	if err != nil {
		return xerrors.WrapUpstream(err)
	}

	const q = `INSERT INTO pens (id, tuple) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET tuple = EXCLUDED.tuple`
	_, err = p.db.ExecContext(ctx, q, id, data)
	if err != nil {
		return xerrors.WrapUpstream(err)
	}

	logging.FromContext(ctx).Debug("saved pen to postgres",
		zap.String("id", id), zap.Int("corpus_len", pn.Len()))
	return nil
}

func (p *Postgres) Load(ctx context.Context, id string, cmp token.Comparer) (*pen.Pen, error) {
	const q = `SELECT tuple FROM pens WHERE id = $1`
	row := p.db.QueryRowContext(ctx, q, id)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.Statef("store: postgres: no pen stored under id %q", id)
		}
		return nil, xerrors.WrapUpstream(err)
	}

	var tuple Tuple
	if err := json.Unmarshal(data, &tuple); err != nil {
		return nil, xerrors.WrapUpstream(err)
	}

	return Decode(tuple, cmp)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM pens WHERE id = $1`, id)
	return xerrors.WrapUpstream(err)
}

func (p *Postgres) Close() error { return p.db.Close() }
