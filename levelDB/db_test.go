package levelDB

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ssbcDeploy/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDB(t *testing.T) {
	ctx := context.Background()
	s, err := InitMemDB()
	require.NoError(t, err)
	defer s.Close()

	b := new(storage.Batch)
	b.Put("key", []byte("value"))
	b.Put("head", []byte("1"))
	require.NoError(t, s.Write(ctx, b))
	v, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)
	v, err = s.Get(ctx, "head")
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileDBReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger")

	s, err := InitDB(path)
	require.NoError(t, err)
	b := new(storage.Batch)
	b.Put("head", []byte("7"))
	require.NoError(t, s.Write(ctx, b))
	require.NoError(t, s.Close())

	s, err = InitDB(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "head")
	require.NoError(t, err)
	assert.Equal(t, "7", string(v))
}
