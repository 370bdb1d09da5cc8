package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"StorefrontAPI/internal/auth"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const identityKey = "auth_identity"

// TokenVerifier checks a bearer token's signature, expiry and issuer.
type TokenVerifier interface {
	Verify(token string) (*auth.VerifiedToken, error)
}

// UserResolver loads the current user record behind a token subject.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Authenticator turns a bearer token into an Identity. Roles always come
// from the stored user, never from the token payload, so revoking a role or
// deactivating an account takes effect on the next request.
type Authenticator struct {
	Tokens TokenVerifier
	Users  UserResolver
	Logger *zap.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserResolver, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{Tokens: tokens, Users: users, Logger: logger}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// Authenticate requires a valid bearer token for an active user and attaches
// the resulting Identity to the request.
func (a *Authenticator) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return fmt.Errorf("%w: missing authorization header", services.ErrUnauthorized)
			}
			raw, ok := bearerToken(header)
			if !ok {
				return fmt.Errorf("%w: malformed authorization header", services.ErrUnauthorized)
			}

			vt, err := a.Tokens.Verify(raw)
			if err != nil {
				return fmt.Errorf("%w: invalid or expired token", services.ErrUnauthorized)
			}

			u, err := a.Users.GetByID(c.Request().Context(), vt.Subject)
			switch {
			case errors.Is(err, services.ErrNotFound):
				return fmt.Errorf("%w: unknown user", services.ErrUnauthorized)
			case err != nil:
				return err
			case !u.IsActive:
				a.Logger.Info("rejected token of inactive user", zap.String("user_id", u.ID.String()))
				return fmt.Errorf("%w: account disabled", services.ErrUnauthorized)
			}

			c.Set(identityKey, model.Identity{ID: u.ID, Email: u.Email, Roles: u.Roles})
			return next(c)
		}
	}
}

// RequireRole must be chained after Authenticate.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := GetIdentity(c)
			if !ok {
				return fmt.Errorf("%w: authentication required", services.ErrUnauthorized)
			}
			if !id.Roles.Has(role) {
				return fmt.Errorf("%w: %s role required", services.ErrForbidden, role)
			}
			return next(c)
		}
	}
}

// GetIdentity returns the identity attached by Authenticate.
func GetIdentity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok
}
