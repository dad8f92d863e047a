package weeklycache

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
create table if not exists weekly_cache (
	name text primary key,
	contents blob not null
);`

// SqliteStorage keeps every entry as a row of a single weekly_cache table.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqliteStorage opens (or creates) the database at path, ":memory:" is
// accepted.
func OpenSqliteStorage(ctx context.Context, path string) (SqliteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return SqliteStorage{}, err
	}
	// an in-memory database only lives as long as its one connection
	db.SetMaxOpenConns(1)

	storage, err := NewSqliteStorage(ctx, db)
	if err != nil {
		db.Close()
		return SqliteStorage{}, err
	}
	return storage, nil
}

func NewSqliteStorage(ctx context.Context, db *sql.DB) (SqliteStorage, error) {
	_, err := db.ExecContext(ctx, sqliteSchema)
	if err != nil {
		return SqliteStorage{}, err
	}
	return SqliteStorage{db: db}, nil
}

func (s SqliteStorage) Close() error {
	return s.db.Close()
}

func (s SqliteStorage) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		"select count(*) from weekly_cache where name = ?",
		name,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s SqliteStorage) Read(ctx context.Context, name string) ([]byte, error) {
	var contents []byte
	err := s.db.QueryRowContext(
		ctx,
		"select contents from weekly_cache where name = ?",
		name,
	).Scan(&contents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}
	return contents, nil
}

func (s SqliteStorage) Write(ctx context.Context, name string, contents []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into weekly_cache(name, contents) values (?, ?)
		on conflict(name) do update set contents = excluded.contents`,
		name, contents,
	)
	return err
}
