package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		hash, err := h.Hash("correct horse battery")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery", hash)

		assert.True(t, h.Verify("correct horse battery", hash))
		assert.False(t, h.Verify("correct horse battery!", hash))
		assert.False(t, h.Verify("", hash))
	})

	t.Run("salted", func(t *testing.T) {
		a, err := h.Hash("same-password")
		require.NoError(t, err)
		b, err := h.Hash("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("corrupt stored hash never panics", func(t *testing.T) {
		for _, stored := range []string{"", "not-a-hash", "$2a$10$", "$2a$99$abcdefghijklmnopqrstuv", string([]byte{0xff, 0x00})} {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("anything", stored))
			})
		}
	})

	t.Run("placeholder is random and not guessable", func(t *testing.T) {
		a, err := h.Placeholder()
		require.NoError(t, err)
		b, err := h.Placeholder()
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.False(t, h.Verify("", a))
		assert.False(t, h.Verify("password", a))
	})

	t.Run("invalid cost falls back to default", func(t *testing.T) {
		assert.Equal(t, bcrypt.DefaultCost, NewHasher(100).cost)
		assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	})
}
