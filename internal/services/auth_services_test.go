package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"StorefrontAPI/internal/auth/google"
	"StorefrontAPI/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(users *fakeUsers, g IDTokenVerifier) (*AuthService, *fakeHasher) {
	h := &fakeHasher{}
	return NewAuthService(users, fakeTokens{}, h, g, nil), h
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with the user role", func(t *testing.T) {
		users := newFakeUsers()
		svc, _ := newAuthService(users, nil)
		name := "  Ada "

		res, err := svc.Register(ctx, RegisterInput{Email: " Ada@Example.COM ", Password: "longenough", Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", res.User.Email)
		assert.Equal(t, []string{"user"}, res.User.Roles)
		require.NotNil(t, res.User.Name)
		assert.Equal(t, "Ada", *res.User.Name)
		assert.True(t, strings.HasPrefix(res.Token, "token:"+res.User.ID.String()))

		stored, err := users.GetByID(ctx, res.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "hashed:longenough", stored.PasswordHash)
	})

	t.Run("duplicate email conflicts regardless of case", func(t *testing.T) {
		users := newFakeUsers(&model.User{ID: uuid.New(), Email: "ada@example.com", IsActive: true})
		svc, _ := newAuthService(users, nil)

		_, err := svc.Register(ctx, RegisterInput{Email: "ADA@example.com", Password: "longenough"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("input is validated before any write", func(t *testing.T) {
		users := newFakeUsers()
		svc, _ := newAuthService(users, nil)

		_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "short"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Fields["email"])
		assert.Equal(t, "min", verr.Fields["password"])
		assert.Empty(t, users.users)
	})

	t.Run("password longer than bcrypt accepts is rejected", func(t *testing.T) {
		svc, _ := newAuthService(newFakeUsers(), nil)
		_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: strings.Repeat("x", 73)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "max", verr.Fields["password"])
	})

	t.Run("email validator can veto", func(t *testing.T) {
		svc := NewAuthService(newFakeUsers(), fakeTokens{}, &fakeHasher{}, nil, rejectingValidator{})
		_, err := svc.Register(ctx, RegisterInput{Email: "a@mailinator.com", Password: "longenough"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["email"], "disposable")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	active := &model.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: "hashed:secret123", IsActive: true,
		Roles: model.NewRoleSet(model.RoleAdmin, model.RoleEditor)}
	blocked := &model.User{ID: uuid.New(), Email: "bob@example.com", PasswordHash: "hashed:secret123", IsActive: false}
	svc, _ := newAuthService(newFakeUsers(active, blocked), nil)

	res, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, active.ID, res.User.ID)
	assert.Equal(t, []string{"admin", "editor"}, res.User.Roles)

	tests := []struct {
		name string
		in   LoginInput
	}{
		{"wrong password", LoginInput{Email: "ada@example.com", Password: "wrong-one"}},
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: "secret123"}},
		{"inactive account", LoginInput{Email: "bob@example.com", Password: "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	u := &model.User{ID: uuid.New(), Email: "ada@example.com", IsActive: true, Roles: model.NewRoleSet(model.RoleUser)}
	svc, _ := newAuthService(newFakeUsers(u), nil)

	v, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, v.Email)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	name := "Grace"

	t.Run("first login creates the account with a placeholder credential", func(t *testing.T) {
		users := newFakeUsers()
		svc, h := newAuthService(users, &fakeGoogle{profile: &google.Profile{Subject: "1", Email: "grace@example.com", Name: &name}})

		res, err := svc.LoginWithGoogle(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, "grace@example.com", res.User.Email)
		assert.Equal(t, []string{"user"}, res.User.Roles)
		assert.Equal(t, 1, h.placeholders)

		stored, err := users.GetByID(ctx, res.User.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored.PasswordHash, "placeholder:"))
	})

	t.Run("existing account is reused", func(t *testing.T) {
		existing := &model.User{ID: uuid.New(), Email: "grace@example.com", IsActive: true, Roles: model.NewRoleSet(model.RoleEditor)}
		users := newFakeUsers(existing)
		svc, h := newAuthService(users, &fakeGoogle{profile: &google.Profile{Subject: "1", Email: "Grace@Example.com"}})

		res, err := svc.LoginWithGoogle(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, res.User.ID)
		assert.Equal(t, 0, h.placeholders)
		assert.Len(t, users.users, 1)
	})

	t.Run("inactive account is refused", func(t *testing.T) {
		existing := &model.User{ID: uuid.New(), Email: "grace@example.com", IsActive: false}
		svc, _ := newAuthService(newFakeUsers(existing), &fakeGoogle{profile: &google.Profile{Subject: "1", Email: "grace@example.com"}})

		_, err := svc.LoginWithGoogle(ctx, "id-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("verification failure is unauthorized", func(t *testing.T) {
		svc, _ := newAuthService(newFakeUsers(), &fakeGoogle{err: errors.New("bad audience")})
		_, err := svc.LoginWithGoogle(ctx, "id-token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("not configured", func(t *testing.T) {
		svc, _ := newAuthService(newFakeUsers(), nil)
		_, err := svc.LoginWithGoogle(ctx, "id-token")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("missing credential", func(t *testing.T) {
		svc, _ := newAuthService(newFakeUsers(), &fakeGoogle{})
		_, err := svc.LoginWithGoogle(ctx, "  ")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
