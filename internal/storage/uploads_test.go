package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStoreSave(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	info, err := store.Save(strings.NewReader("a,b\n1,2\n"), ".csv")
	require.NoError(t, err)

	assert.Equal(t, "upload_20240101_120000.csv", info.Name)
	assert.Equal(t, int64(8), info.Size)
	assert.NotEmpty(t, info.ID)
	assert.True(t, store.Exists(info.Name))

	path, err := store.Path(info.Name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestUploadStoreSameSecondCollision(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	first, err := store.Save(strings.NewReader("one"), ".csv")
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("two"), ".csv")
	require.NoError(t, err)

	assert.Equal(t, "upload_20240101_120000.csv", first.Name)
	assert.Equal(t, "upload_20240101_120000_1.csv", second.Name)

	path, _ := store.Path(first.Name)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "one", string(data))
}

func TestUploadStoreDelete(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	info, err := store.Save(strings.NewReader("data"), ".json")
	require.NoError(t, err)

	require.NoError(t, store.Delete(info.Name))
	assert.False(t, store.Exists(info.Name))
	assert.Empty(t, store.List(10))

	assert.Error(t, store.Delete(info.Name))
}

func TestUploadStoreList(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	for i := 0; i < 3; i++ {
		_, err := store.Save(strings.NewReader("x"), ".csv")
		require.NoError(t, err)
	}

	list := store.List(2)
	require.Len(t, list, 2)
	assert.True(t, list[0].UploadedAt.After(list[1].UploadedAt))
}

func TestUploadStoreRejectsTraversal(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b.csv", `a\b.csv`, "..hidden..csv"} {
		_, err := store.Path(name)
		assert.Error(t, err, "name %q should be rejected", name)
		assert.False(t, store.Exists(name))
	}
}

func TestOutputStore(t *testing.T) {
	root := t.TempDir()
	outputs, err := NewOutputStore(root)
	require.NoError(t, err)

	name := DirNameFor("upload_20240101_120000.csv")
	assert.Equal(t, "upload_20240101_120000_csv", name)

	assert.False(t, outputs.Exists(name))

	dir, err := outputs.EnsureDir(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, name), dir)
	assert.True(t, outputs.Exists(name))

	// Idempotent.
	again, err := outputs.EnsureDir(name)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestOutputStoreRejectsTraversal(t *testing.T) {
	outputs, err := NewOutputStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"..", "../x", "a/b", ""} {
		_, err := outputs.Dir(name)
		assert.Error(t, err, "name %q should be rejected", name)
	}
}
