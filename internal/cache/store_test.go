package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testKey() Key {
	return Key{
		Path:      "/out/CoreTests",
		Size:      4096,
		ModTime:   time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC),
		Encoding:  "ascii",
		MarkerSet: "abc123",
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  string
		wantErr bool
	}{
		{
			name:   "creates database successfully",
			dbPath: filepath.Join(t.TempDir(), "cache.db"),
		},
		{
			name:   "handles in-memory database",
			dbPath: ":memory:",
		},
		{
			name:   "creates parent directories if needed",
			dbPath: filepath.Join(t.TempDir(), "nested", "dir", "cache.db"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.dbPath)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer store.Close()

			version, err := store.getSchemaVersion()
			require.NoError(t, err)
			assert.Equal(t, schemaVersion, version)
			assert.Equal(t, tt.dbPath, store.Path())
		})
	}
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, testKey(), true))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	isTest, found, err := reopened.Lookup(ctx, testKey())
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, isTest)
}

func TestStore_LookupAndRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	key := testKey()

	_, found, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, found, "empty cache has no entry")

	require.NoError(t, store.Record(ctx, key, true))

	isTest, found, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, isTest)

	require.NoError(t, store.Record(ctx, key, false))
	isTest, found, err = store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, isTest, "record replaces the earlier verdict")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_LookupMissesOnChangedFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Record(ctx, testKey(), true))

	tests := []struct {
		name   string
		mutate func(k *Key)
	}{
		{name: "size changed", mutate: func(k *Key) { k.Size++ }},
		{name: "modification time changed", mutate: func(k *Key) { k.ModTime = k.ModTime.Add(time.Nanosecond) }},
		{name: "other encoding", mutate: func(k *Key) { k.Encoding = "utf-16le" }},
		{name: "other marker set", mutate: func(k *Key) { k.MarkerSet = "def456" }},
		{name: "other path", mutate: func(k *Key) { k.Path = "/out/Other" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := testKey()
			tt.mutate(&key)

			_, found, err := store.Lookup(ctx, key)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStore_PruneAndClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return old }
	oldKey := testKey()
	require.NoError(t, store.Record(ctx, oldKey, true))

	store.now = func() time.Time { return old.Add(48 * time.Hour) }
	newKey := testKey()
	newKey.Path = "/out/Newer"
	require.NoError(t, store.Record(ctx, newKey, false))

	removed, err := store.Prune(ctx, old.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, found, err := store.Lookup(ctx, oldKey)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = store.Lookup(ctx, newKey)
	require.NoError(t, err)
	assert.True(t, found)

	removed, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNewStore_RejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	_, err = store.db.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`, schemaVersion+1, 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = NewStore(dbPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}
