package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ssbcDeploy/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	s, err := NewStore(context.Background(), Options{Addr: mr.Addr(), Prefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func put(t *testing.T, s *Store, key, value string) {
	t.Helper()
	b := new(storage.Batch)
	b.Put(key, []byte(value))
	require.NoError(t, s.Write(context.Background(), b))
}

func TestGetandSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, "")

	put(t, s, "ye", "depeng")
	v, err := s.Get(ctx, "ye")
	require.NoError(t, err)
	assert.Equal(t, "depeng", string(v))

	_, err = s.Get(ctx, "hu")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWriteBatch(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, "ssbc:")

	b := new(storage.Batch)
	b.Put("block:1", []byte("b1"))
	b.Put("head", []byte("1"))
	b.Put("head", []byte("2"))
	require.NoError(t, s.Write(ctx, b))

	v, err := s.Get(ctx, "head")
	require.NoError(t, err)
	assert.Equal(t, "2", string(v))
	assert.True(t, mr.Exists("ssbc:block:1"))

	require.NoError(t, s.Write(ctx, new(storage.Batch)))
}

func TestPrefix(t *testing.T) {
	s, mr := newTestStore(t, "ssbc:")

	put(t, s, "head", "3")
	raw, err := mr.Get("ssbc:head")
	require.NoError(t, err)
	assert.Equal(t, "3", raw)
}

func TestNewStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewStore(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}
