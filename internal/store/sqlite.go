package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segmentio/encoding/json"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" sql/database driver

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/token"
	"github.com/nullprose/magictext/internal/xerrors"
)

// SQLite is a PenStore backed by a local sqlite file, for the CLI's offline
// mode when no server or Postgres instance is available.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if absent) the sqlite file at path and ensures
// the pens table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, xerrors.WrapUpstream(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, xerrors.WrapUpstream(err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS pens (
		id TEXT PRIMARY KEY,
		tuple TEXT NOT NULL
	)`
	_, err := s.db.ExecContext(ctx, ddl)
	return xerrors.WrapUpstream(err)
}

func (s *SQLite) Save(ctx context.Context, id string, pn *pen.Pen) error {
	tuple := Encode(pn)
	data, err := json.Marshal(tuple)
	if err != nil {
		return xerrors.WrapUpstream(err)
	}

	const q = `INSERT INTO pens (id, tuple) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET tuple = excluded.tuple`
	_, err = s.db.ExecContext(ctx, q, id, string(data))
	return xerrors.WrapUpstream(err)
}

func (s *SQLite) Load(ctx context.Context, id string, cmp token.Comparer) (*pen.Pen, error) {
	const q = `SELECT tuple FROM pens WHERE id = ?`
	row := s.db.QueryRowContext(ctx, q, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.Statef("store: sqlite: no pen stored under id %q", id)
		}
		return nil, xerrors.WrapUpstream(err)
	}

	var tuple Tuple
	if err := json.Unmarshal([]byte(data), &tuple); err != nil {
		return nil, xerrors.WrapUpstream(err)
	}

	return Decode(tuple, cmp)
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pens WHERE id = ?`, id)
	return xerrors.WrapUpstream(err)
}

func (s *SQLite) Close() error { return s.db.Close() }
