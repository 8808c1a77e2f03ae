package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	t.Run("missing key", func(t *testing.T) {
		_, err := st.Get(ctx, "missing")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, KeyLoggedIn, "true"))
		val, err := st.Get(ctx, KeyLoggedIn)
		require.NoError(t, err)
		assert.Equal(t, "true", val)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, KeyLoggedIn, "false"))
		val, err := st.Get(ctx, KeyLoggedIn)
		require.NoError(t, err)
		assert.Equal(t, "false", val)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, st.Remove(ctx, KeyLoggedIn))
		_, err := st.Get(ctx, KeyLoggedIn)
		assert.Equal(t, ErrNotFound, err)

		// Removing again stays a no-op.
		assert.NoError(t, st.Remove(ctx, KeyLoggedIn))
	})
}
