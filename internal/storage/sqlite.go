package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/lovechest/internal/fault"
	"github.com/comigor/lovechest/internal/logger"
)

// DefaultProfile scopes keys when no profile is configured.
const DefaultProfile = "default"

// SQLite stores values in a single kv table. Several chests can share one
// file as long as each uses its own profile.
type SQLite struct {
	db      *sql.DB
	profile string
	log     *slog.Logger
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path, profile string) (*SQLite, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	log := logger.For("storage").With("profile", profile)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fault.Storage("open", fmt.Errorf("creating database directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fault.Storage("open", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
        profile TEXT NOT NULL,
        key TEXT NOT NULL,
        value TEXT NOT NULL,
        updated_at DATETIME NOT NULL,
        PRIMARY KEY (profile, key)
    );`); err != nil {
		db.Close()
		return nil, fault.Storage("create schema", err)
	}
	log.Info("sqlite store initialized", "path", path)
	return &SQLite{db: db, profile: profile, log: log}, nil
}

func (s *SQLite) Get(ctx context.Context, key Key) (string, bool, error) {
	op := "get " + string(key)
	if err := checkKey(op, key); err != nil {
		return "", false, err
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE profile = ? AND key = ?;`, s.profile, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fault.Storage(op, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key Key, value string) error {
	op := "set " + string(key)
	if err := checkKey(op, key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv (profile, key, value, updated_at) VALUES (?,?,?,?)
        ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`,
		s.profile, string(key), value, time.Now().UTC())
	if err != nil {
		return fault.Storage(op, err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, key Key) error {
	op := "remove " + string(key)
	if err := checkKey(op, key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE profile = ? AND key = ?;`, s.profile, string(key)); err != nil {
		return fault.Storage(op, err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE profile = ?;`, s.profile); err != nil {
		return fault.Storage("clear", err)
	}
	s.log.Info("store cleared")
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
