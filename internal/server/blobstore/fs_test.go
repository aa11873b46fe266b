package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFSStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(filepath.Join(t.TempDir(), "files_manager"))
	require.NoError(t, err)
	return s
}

func TestNewFSStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b")
	s, err := NewFSStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, s.Root())

	fi, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	_, err = NewFSStore("")
	assert.Error(t, err)
}

func TestFSStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)
	ref := NewRef()

	require.NoError(t, s.Put(ctx, ref, []byte("Hello Webstack!\n")))

	got, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!\n", string(got))

	onDisk, err := os.ReadFile(filepath.Join(s.Root(), ref))
	require.NoError(t, err)
	assert.Equal(t, got, onDisk)

	require.NoError(t, s.Delete(ctx, ref))
	_, err = s.Get(ctx, ref)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.Delete(ctx, ref), "deleting a missing blob is not an error")
}

func TestFSStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)
	ref := DerivativeRef(NewRef(), 250)

	require.NoError(t, s.Put(ctx, ref, []byte("first")))
	require.NoError(t, s.Put(ctx, ref, []byte("second")))

	got, err := s.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestFSStore_RejectsPathRefs(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)

	for _, ref := range []string{"", "..", "../escape", "a/b", `a\b`} {
		assert.Error(t, s.Put(ctx, ref, []byte("x")), ref)
		_, err := s.Get(ctx, ref)
		assert.ErrorIs(t, err, common.ErrorNotFound, ref)
	}
}

func TestFSStore_Exists(t *testing.T) {
	ctx := context.Background()
	s := newFSStore(t)
	ref := DerivativeRef(NewRef(), 100)

	ok, err := s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, ref, []byte("thumb")))
	ok, err = s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "dir"), 0o755))
	ok, err = s.Exists(ctx, "dir")
	require.NoError(t, err)
	assert.False(t, ok, "directories are not blobs")

	ok, err = s.Exists(ctx, "../escape")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, ref))
	ok, err = s.Exists(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFSStore_CanceledContext(t *testing.T) {
	s := newFSStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, NewRef(), []byte("x")), context.Canceled)
}

func TestDerivativeRef(t *testing.T) {
	assert.Equal(t, "abc_500", DerivativeRef("abc", 500))
	assert.Equal(t, "abc_100", DerivativeRef("abc", 100))
	assert.NotEqual(t, NewRef(), NewRef())
}
