package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/lovechest/internal/fault"
)

func openTestSQLite(t *testing.T, path, profile string) *SQLite {
	t.Helper()
	s, err := OpenSQLite(path, profile)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) {
		fn(t, openTestSQLite(t, filepath.Join(t.TempDir(), "chest.db"), ""))
	})
}

func TestStore_GetSetRemove(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, ok, err := s.Get(ctx, KeyCurrentMessage)
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, s.Set(ctx, KeyCurrentMessage, "Du bist so süß!"))
		require.NoError(t, s.Set(ctx, KeyCurrentMessage, "Mein Herz gehört dir!"))
		v, ok, err := s.Get(ctx, KeyCurrentMessage)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "Mein Herz gehört dir!", v)

		require.NoError(t, s.Remove(ctx, KeyCurrentMessage))
		_, ok, err = s.Get(ctx, KeyCurrentMessage)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestStore_Clear(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for _, k := range Keys {
			require.NoError(t, s.Set(ctx, k, "x"))
		}
		require.NoError(t, s.Clear(ctx))
		for _, k := range Keys {
			_, ok, err := s.Get(ctx, k)
			require.NoError(t, err)
			require.False(t, ok, "key %s survived Clear", k)
		}
	})
}

func TestStore_RejectsUnknownKey(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		err := s.Set(ctx, Key("lastOpened"), "Sat Oct 17 2026")
		require.ErrorIs(t, err, &fault.Error{Kind: fault.StorageFailure})

		_, _, err = s.Get(ctx, Key("dailyLoveChest"))
		require.ErrorIs(t, err, &fault.Error{Kind: fault.StorageFailure})
	})
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chest.db")
	ctx := context.Background()

	first, err := OpenSQLite(path, "")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyLastMessageIndex, "4"))
	require.NoError(t, first.Close())

	second := openTestSQLite(t, path, "")
	v, ok, err := second.Get(ctx, KeyLastMessageIndex)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "4", v)
}

func TestSQLite_ProfilesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chest.db")
	ctx := context.Background()
	a := openTestSQLite(t, path, "fabi")
	b := openTestSQLite(t, path, "benni")

	require.NoError(t, a.Set(ctx, KeyChestOpen, "true"))
	_, ok, err := b.Get(ctx, KeyChestOpen)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.Set(ctx, KeyChestOpen, "true"))
	require.NoError(t, b.Clear(ctx))
	v, ok, err := a.Get(ctx, KeyChestOpen)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestSQLite_ClosedDatabaseIsStorageFailure(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "chest.db"), "")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), KeyLastOpenedDate)
	kind, ok := fault.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fault.StorageFailure, kind)
}

func TestOpen_Drivers(t *testing.T) {
	s, closeFn, err := Open(DriverMemory, "", "")
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)
	require.NoError(t, closeFn())

	s, closeFn, err = Open(DriverSQLite, filepath.Join(t.TempDir(), "chest.db"), "")
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, s)
	require.NoError(t, closeFn())

	_, _, err = Open("redis", "", "")
	require.Error(t, err)
}

func TestOpen_FallsBackToMemory(t *testing.T) {
	// A regular file where the parent directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s, closeFn, err := Open(DriverSQLite, filepath.Join(blocker, "chest.db"), "")
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)
	require.NoError(t, closeFn())

	kind, ok := fault.KindOf(Degraded(s))
	require.True(t, ok)
	require.Equal(t, fault.StorageFailure, kind)
}

func TestDegraded_NilForHealthyStores(t *testing.T) {
	require.NoError(t, Degraded(NewMemory()))
	require.NoError(t, Degraded(openTestSQLite(t, filepath.Join(t.TempDir(), "chest.db"), "")))
}
