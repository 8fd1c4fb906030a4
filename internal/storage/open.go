package storage

import (
	"fmt"
	"strings"

	"github.com/comigor/lovechest/internal/logger"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the store named by driver and a func releasing it.
// When the sqlite file cannot be opened the store falls back to memory, so
// the chest stays usable but nothing survives a restart; Degraded reports
// that case.
func Open(driver, path, profile string) (Store, func() error, error) {
	switch strings.ToLower(driver) {
	case DriverMemory:
		return NewMemory(), func() error { return nil }, nil
	case DriverSQLite, "":
		s, err := OpenSQLite(path, profile)
		if err != nil {
			logger.For("storage").Warn("sqlite open failed; using in-memory store", "path", path, "error", err)
			fallback := NewMemory()
			fallback.reason = err
			return fallback, func() error { return nil }, nil
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// Degraded returns the storage failure that made s a non-persistent
// fallback, or nil when s persists normally.
func Degraded(s Store) error {
	if d, ok := s.(interface{ Degraded() error }); ok {
		return d.Degraded()
	}
	return nil
}
