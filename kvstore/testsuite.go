package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStoreSuite runs the RangeStore conformance suite against a backend.
// Every backend in this package is exercised through it so the listing core
// sees identical scan/get/delete-range semantics regardless of engine.
func TestStoreSuite(t *testing.T, newStore func(t testing.TB) Store) {
	ctx := context.Background()

	t.Run("GetAbsent", func(t *testing.T) {
		s := newStore(t)
		value, ok, err := s.Get(ctx, []byte("nope"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("PutGet", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, []byte("key1"), []byte("value1")))
		value, ok, err := s.Get(ctx, []byte("key1"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("value1"), value)
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, []byte("key1"), []byte("old")))
		require.NoError(t, s.Put(ctx, []byte("key1"), []byte("new")))
		value, ok, err := s.Get(ctx, []byte("key1"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("new"), value)
	})

	t.Run("ScanOrdered", func(t *testing.T) {
		s := newStore(t)
		// Inserted out of order on purpose
		for _, k := range []string{"b", "d", "a", "c"} {
			require.NoError(t, s.Put(ctx, []byte(k), []byte("v"+k)))
		}
		cur, err := s.Scan(ctx, []byte("a"), []byte("e"))
		require.NoError(t, err)
		defer cur.Close()

		var keys []string
		for cur.Next() {
			keys = append(keys, string(cur.Key()))
			assert.Equal(t, "v"+string(cur.Key()), string(cur.Value()))
		}
		require.NoError(t, cur.Err())
		assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
	})

	t.Run("ScanHalfOpen", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"a", "b", "c", "d"} {
			require.NoError(t, s.Put(ctx, []byte(k), []byte{}))
		}
		cur, err := s.Scan(ctx, []byte("b"), []byte("d"))
		require.NoError(t, err)
		defer cur.Close()

		var keys []string
		for cur.Next() {
			keys = append(keys, string(cur.Key()))
		}
		require.NoError(t, cur.Err())
		// start inclusive, end exclusive
		assert.Equal(t, []string{"b", "c"}, keys)
	})

	t.Run("ScanEmptyRange", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, []byte("z"), []byte{}))
		cur, err := s.Scan(ctx, []byte("a"), []byte("b"))
		require.NoError(t, err)
		defer cur.Close()
		assert.False(t, cur.Next())
		require.NoError(t, cur.Err())
	})

	t.Run("CursorCloseIdempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, []byte("a"), []byte{}))
		cur, err := s.Scan(ctx, []byte("a"), []byte("b"))
		require.NoError(t, err)
		require.NoError(t, cur.Close())
		require.NoError(t, cur.Close())
		assert.False(t, cur.Next())
	})

	t.Run("DeleteRangeBoundary", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"a", "b", "c", "d"} {
			require.NoError(t, s.Put(ctx, []byte(k), []byte{}))
		}
		require.NoError(t, s.DeleteRange(ctx, []byte("b"), []byte("d")))

		for k, want := range map[string]bool{"a": true, "b": false, "c": false, "d": true} {
			_, ok, err := s.Get(ctx, []byte(k))
			require.NoError(t, err)
			assert.Equal(t, want, ok, "key %q", k)
		}
	})
}
