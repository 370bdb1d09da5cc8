package main

import (
	"errors"
	"fmt"
	"net/http"

	"StorefrontAPI/internal/auth/google"
	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

func registerHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req services.RegisterInput
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := authSvc.Register(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, res)
	}
}

func loginHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req services.LoginInput
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := authSvc.Login(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// meHandler returns the stored record of the caller, not the token contents.
func meHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := middleware.GetIdentity(c)
		if !ok {
			return services.ErrUnauthorized
		}
		user, err := authSvc.Me(c.Request().Context(), id.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, user)
	}
}

func googleLoginHandler(authSvc *services.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req googleLoginRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		res, err := authSvc.LoginWithGoogle(c.Request().Context(), req.Credential)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// googleStartHandler begins the redirect flow: state and PKCE verifier are
// parked in Redis and the browser is sent to Google.
func googleStartHandler(provider *google.Provider, states *google.StateStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		if provider == nil || states == nil || !provider.CodeFlowEnabled() {
			return fmt.Errorf("%w: google redirect login", services.ErrNotConfigured)
		}
		state, err := google.NewState()
		if err != nil {
			return err
		}
		verifier, challenge, err := google.NewPKCE()
		if err != nil {
			return err
		}
		if err := states.Save(c.Request().Context(), state, verifier); err != nil {
			return err
		}
		target, err := provider.AuthCodeURL(state, challenge)
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, target)
	}
}

func googleCallbackHandler(authSvc *services.AuthService, provider *google.Provider, states *google.StateStore, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if provider == nil || states == nil || !provider.CodeFlowEnabled() {
			return fmt.Errorf("%w: google redirect login", services.ErrNotConfigured)
		}
		if reason := c.QueryParam("error"); reason != "" {
			return fmt.Errorf("%w: google returned %s", services.ErrUnauthorized, reason)
		}
		state, code := c.QueryParam("state"), c.QueryParam("code")
		if state == "" || code == "" {
			return &services.ValidationError{
				Message: "missing callback parameters",
				Fields:  map[string]string{"state": "required", "code": "required"},
			}
		}

		ctx := c.Request().Context()
		verifier, err := states.Consume(ctx, state)
		if errors.Is(err, google.ErrStateNotFound) {
			return fmt.Errorf("%w: %v", services.ErrUnauthorized, err)
		}
		if err != nil {
			return err
		}

		profile, err := provider.Exchange(ctx, code, verifier)
		if err != nil {
			logger.Info("google code exchange failed", zap.Error(err))
			return fmt.Errorf("%w: google login failed", services.ErrUnauthorized)
		}
		res, err := authSvc.LoginWithProfile(ctx, profile)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

func registerAuthRoutes(g *echo.Group, a *app) {
	auth := g.Group("/auth")

	// public
	auth.POST("/register", registerHandler(a.authSvc))
	auth.POST("/login", loginHandler(a.authSvc))
	auth.POST("/google", googleLoginHandler(a.authSvc))
	auth.GET("/google/start", googleStartHandler(a.google, a.states))
	auth.GET("/google/callback", googleCallbackHandler(a.authSvc, a.google, a.states, a.logger))

	// authenticated
	auth.GET("/me", meHandler(a.authSvc), a.authn.Authenticate())
}
