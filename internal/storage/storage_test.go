package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "file"))
	require.NoError(t, err)

	db, err := OpenSQLite(filepath.Join(dir, "db", DBFile))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]KV{
		"file":   file,
		"sqlite": db,
		"memory": NewMemory(),
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, kv := range backends(t) {
		_, err := kv.Get(context.Background(), "transactions")
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestKV_PutGet(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		require.NoError(t, kv.Put(ctx, "transactions", []byte(`[{"id":"a"}]`)), name)

		got, err := kv.Get(ctx, "transactions")
		require.NoError(t, err, name)
		assert.Equal(t, `[{"id":"a"}]`, string(got), name)
	}
}

func TestKV_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		require.NoError(t, kv.Put(ctx, "transactions", []byte("one")), name)
		require.NoError(t, kv.Put(ctx, "transactions", []byte("two")), name)

		got, err := kv.Get(ctx, "transactions")
		require.NoError(t, err, name)
		assert.Equal(t, "two", string(got), name)
	}
}

func TestFile_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Put(context.Background(), "transactions", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "transactions.json", entries[0].Name())
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBFile)
	ctx := context.Background()

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, "transactions", []byte("[]")))
	require.NoError(t, db.Close())

	// Migrations must be a no-op on the second open.
	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(BackendFile, dir)
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	kv, err = Open(BackendSQLite, dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	require.NoError(t, kv.Close())
	_, err = os.Stat(filepath.Join(dir, DBFile))
	require.NoError(t, err)

	_, err = Open("redis", dir)
	assert.Error(t, err)
}

func TestMemory_FailPut(t *testing.T) {
	m := NewMemory()
	m.FailPut = errors.New("disk full")
	assert.EqualError(t, m.Put(context.Background(), "k", nil), "disk full")
}
