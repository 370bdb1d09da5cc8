package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StorefrontAPI/internal/auth"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/repository"
	"StorefrontAPI/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userMap map[uuid.UUID]*model.User

func (m userMap) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour, "storefront-test")
	require.NoError(t, err)
	return ts
}

func request(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokens(t)
	active := &model.User{ID: uuid.New(), Email: "ada@example.com", IsActive: true, Roles: model.NewRoleSet(model.RoleUser)}
	inactive := &model.User{ID: uuid.New(), Email: "bob@example.com", IsActive: false, Roles: model.NewRoleSet(model.RoleAdmin)}
	a := NewAuthenticator(tokens, userMap{active.ID: active, inactive.ID: inactive}, nil)

	sign := func(u *model.User, roles model.RoleSet) string {
		tok, err := tokens.Issue(u.ID, u.Email, roles)
		require.NoError(t, err)
		return tok
	}

	t.Run("valid token attaches the stored identity", func(t *testing.T) {
		c, rec := request("Bearer " + sign(active, active.Roles))
		var got model.Identity
		err := a.Authenticate()(func(c echo.Context) error {
			got, _ = GetIdentity(c)
			return ok(c)
		})(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, active.ID, got.ID)
		assert.Equal(t, active.Roles, got.Roles)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		c, _ := request("bearer " + sign(active, active.Roles))
		assert.NoError(t, a.Authenticate()(ok)(c))
	})

	t.Run("roles come from the record, not the token", func(t *testing.T) {
		c, _ := request("Bearer " + sign(active, model.NewRoleSet(model.RoleAdmin)))
		var got model.Identity
		err := a.Authenticate()(func(c echo.Context) error {
			got, _ = GetIdentity(c)
			return nil
		})(c)
		require.NoError(t, err)
		assert.False(t, got.Roles.Has(model.RoleAdmin))
	})

	rejected := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"no token", "Bearer"},
		{"extra parts", "Bearer a b"},
		{"garbage token", "Bearer not.a.jwt"},
		{"inactive user", "Bearer " + sign(inactive, inactive.Roles)},
		{"unknown user", "Bearer " + sign(&model.User{ID: uuid.New(), Email: "ghost@example.com"}, nil)},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := request(tt.header)
			called := false
			err := a.Authenticate()(func(c echo.Context) error {
				called = true
				return nil
			})(c)
			assert.ErrorIs(t, err, services.ErrUnauthorized)
			assert.False(t, called)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Run("no identity is unauthorized", func(t *testing.T) {
		c, _ := request("")
		err := RequireRole(model.RoleAdmin)(ok)(c)
		assert.ErrorIs(t, err, services.ErrUnauthorized)
	})

	t.Run("missing role is forbidden", func(t *testing.T) {
		c, _ := request("")
		c.Set(identityKey, model.Identity{ID: uuid.New(), Roles: model.NewRoleSet(model.RoleEditor)})
		err := RequireRole(model.RoleAdmin)(ok)(c)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("holding the role passes", func(t *testing.T) {
		c, rec := request("")
		c.Set(identityKey, model.Identity{ID: uuid.New(), Roles: model.NewRoleSet(model.RoleAdmin, model.RoleEditor)})
		require.NoError(t, RequireRole(model.RoleEditor)(ok)(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("chained after authenticate", func(t *testing.T) {
		tokens := newTokens(t)
		u := &model.User{ID: uuid.New(), Email: "ed@example.com", IsActive: true, Roles: model.NewRoleSet(model.RoleEditor)}
		a := NewAuthenticator(tokens, userMap{u.ID: u}, nil)
		tok, err := tokens.Issue(u.ID, u.Email, u.Roles)
		require.NoError(t, err)

		c, _ := request("Bearer " + tok)
		h := a.Authenticate()(RequireRole(model.RoleAdmin)(ok))
		assert.ErrorIs(t, h(c), services.ErrForbidden)

		c, _ = request("Bearer " + tok)
		h = a.Authenticate()(RequireRole(model.RoleEditor)(ok))
		assert.NoError(t, h(c))
	})
}
