package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"StorefrontAPI/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const issuerURL = "https://accounts.google.com"

var (
	ErrInvalidIDToken   = errors.New("google id token is invalid")
	ErrEmailNotVerified = errors.New("google account email is not verified")
	ErrCodeFlowDisabled = errors.New("google redirect login is not configured")
	ErrMissingIDToken   = errors.New("google did not return id_token")
	errMissingClientID  = errors.New("google client id is required")
)

// Profile is what a verified Google ID token tells us about the account.
type Profile struct {
	Subject string
	Email   string
	Name    *string
}

type Provider struct {
	verifier    *oidc.IDTokenVerifier
	oauthConfig *oauth2.Config
}

// New discovers Google's OIDC configuration. The redirect flow is enabled
// only when a client secret and redirect URL are configured as well.
func New(ctx context.Context, cfg config.GoogleConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errMissingClientID
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	p := &Provider{
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}

	if cfg.CodeFlowEnabled() {
		p.oauthConfig = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}
	}
	return p, nil
}

// NewWithVerifier builds a provider around an existing verifier, without
// the redirect flow.
func NewWithVerifier(v *oidc.IDTokenVerifier) *Provider {
	return &Provider{verifier: v}
}

// WithCodeFlow enables the redirect flow with an explicit OAuth2 config.
func (p *Provider) WithCodeFlow(cfg *oauth2.Config) *Provider {
	p.oauthConfig = cfg
	return p
}

// VerifyIDToken checks signature, issuer, audience and expiry of a raw ID
// token and returns the verified account profile.
func (p *Provider) VerifyIDToken(ctx context.Context, rawIDToken string) (*Profile, error) {
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing required claims", ErrInvalidIDToken)
	}
	if !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	profile := &Profile{
		Subject: claims.Subject,
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
	}
	if name := strings.TrimSpace(claims.Name); name != "" {
		profile.Name = &name
	}
	return profile, nil
}

func (p *Provider) CodeFlowEnabled() bool {
	return p.oauthConfig != nil
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state, codeChallenge string) (string, error) {
	if p.oauthConfig == nil {
		return "", ErrCodeFlowDisabled
	}
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	), nil
}

// Exchange trades an authorization code for tokens and verifies the
// returned ID token.
func (p *Provider) Exchange(ctx context.Context, code, codeVerifier string) (*Profile, error) {
	if p.oauthConfig == nil {
		return nil, ErrCodeFlowDisabled
	}

	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrMissingIDToken
	}
	return p.VerifyIDToken(ctx, rawIDToken)
}
