package auth

import (
	"strings"
	"testing"
	"time"

	"StorefrontAPI/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, now time.Time) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret, time.Hour, "storefront-test")
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("", time.Hour, "x")
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService(strings.Repeat("a", MinSecretLength-1), time.Hour, "x")
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService(testSecret, 0, "x")
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, time.Hour, "x")
	assert.NoError(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	id := uuid.New()
	roles := model.NewRoleSet(model.RoleEditor, model.RoleAdmin)

	token, err := s.Issue(id, "ada@example.com", roles)
	require.NoError(t, err)

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got.Subject)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, roles, got.Roles)
}

func TestTokenRejections(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)
	token, err := s.Issue(uuid.New(), "ada@example.com", model.NewRoleSet(model.RoleUser))
	require.NoError(t, err)

	t.Run("altered signature", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)
		_, err := s.Verify(tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("altered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged := parts[0] + "." + parts[1] + "x." + parts[2]
		_, err := s.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestService(t, now.Add(2*time.Hour))
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := NewTokenService(strings.Repeat("z", 40), time.Hour, "storefront-test")
		require.NoError(t, err)
		other.now = func() time.Time { return now }
		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewTokenService(testSecret, time.Hour, "someone-else")
		require.NoError(t, err)
		other.now = func() time.Time { return now }
		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage input never panics", func(t *testing.T) {
		for _, in := range []string{"", ".", "..", "a.b.c", "not a token", strings.Repeat("x", 4096)} {
			assert.NotPanics(t, func() {
				_, err := s.Verify(in)
				assert.ErrorIs(t, err, ErrInvalidToken)
			})
		}
	})
}

func TestTokenRejectsForeignShapes(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, now)

	sign := func(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		t.Helper()
		signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return signed
	}
	base := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "storefront-test",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	t.Run("alg none", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{RegisteredClaims: base})
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS512 with the right secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), &Claims{RegisteredClaims: base})
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		c := base
		c.ExpiresAt = nil
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{RegisteredClaims: c})
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non uuid subject", func(t *testing.T) {
		c := base
		c.Subject = "42"
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{RegisteredClaims: c})
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed role name", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), &Claims{Roles: []string{"Not A Role!"}, RegisteredClaims: base})
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
