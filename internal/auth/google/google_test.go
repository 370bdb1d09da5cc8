package google

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "storefront-client.apps.googleusercontent.com"

func testProvider(t *testing.T, now time.Time) (*Provider, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	v := oidc.NewVerifier(issuerURL, keySet, &oidc.Config{
		ClientID: testClientID,
		Now:      func() time.Time { return now },
	})
	return NewWithVerifier(v), key
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifyIDToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	p, key := testProvider(t, now)

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"iss":            issuerURL,
			"aud":            testClientID,
			"sub":            "1098765",
			"email":          " Grace@Example.com ",
			"email_verified": true,
			"name":           "Grace Hopper",
			"iat":            now.Unix(),
			"exp":            now.Add(time.Hour).Unix(),
		}
	}

	t.Run("valid token", func(t *testing.T) {
		profile, err := p.VerifyIDToken(ctx, signIDToken(t, key, base()))
		require.NoError(t, err)
		assert.Equal(t, "1098765", profile.Subject)
		assert.Equal(t, "grace@example.com", profile.Email)
		require.NotNil(t, profile.Name)
		assert.Equal(t, "Grace Hopper", *profile.Name)
	})

	t.Run("name is optional", func(t *testing.T) {
		c := base()
		delete(c, "name")
		profile, err := p.VerifyIDToken(ctx, signIDToken(t, key, c))
		require.NoError(t, err)
		assert.Nil(t, profile.Name)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := base()
		c["aud"] = "someone-else"
		_, err := p.VerifyIDToken(ctx, signIDToken(t, key, c))
		assert.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("expired", func(t *testing.T) {
		c := base()
		c["exp"] = now.Add(-time.Minute).Unix()
		_, err := p.VerifyIDToken(ctx, signIDToken(t, key, c))
		assert.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = p.VerifyIDToken(ctx, signIDToken(t, other, base()))
		assert.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("unverified email", func(t *testing.T) {
		c := base()
		c["email_verified"] = false
		_, err := p.VerifyIDToken(ctx, signIDToken(t, key, c))
		assert.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("missing email", func(t *testing.T) {
		c := base()
		delete(c, "email")
		_, err := p.VerifyIDToken(ctx, signIDToken(t, key, c))
		assert.ErrorIs(t, err, ErrInvalidIDToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := p.VerifyIDToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidIDToken)
	})
}

func TestCodeFlowDisabledWithoutSecret(t *testing.T) {
	p, _ := testProvider(t, time.Now())
	assert.False(t, p.CodeFlowEnabled())

	_, err := p.AuthCodeURL("state", "challenge")
	assert.ErrorIs(t, err, ErrCodeFlowDisabled)

	_, err = p.Exchange(context.Background(), "code", "verifier")
	assert.ErrorIs(t, err, ErrCodeFlowDisabled)
}

func TestNewPKCE(t *testing.T) {
	verifier, challenge, err := NewPKCE()
	require.NoError(t, err)

	assert.Len(t, verifier, 43)
	assert.Equal(t, challengeFor(verifier), challenge)
	assert.NotEqual(t, verifier, challenge)

	// RFC 7636 appendix B
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", challengeFor("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"))

	other, _, err := NewPKCE()
	require.NoError(t, err)
	assert.NotEqual(t, verifier, other)
}
