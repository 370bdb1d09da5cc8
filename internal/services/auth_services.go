package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"StorefrontAPI/internal/auth/google"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned by features whose credentials are absent.
var ErrNotConfigured = errors.New("feature is not configured")

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, email string, name *string, passwordHash string, roles model.RoleSet) (*model.User, error)
	List(ctx context.Context, f repository.UserFilter, ob query.OrderBy, p query.Pagination) ([]model.User, error)
	Count(ctx context.Context, f repository.UserFilter) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*model.User, error)
	ReplaceRoles(ctx context.Context, id uuid.UUID, roles model.RoleSet) (*model.User, error)
}

type TokenIssuer interface {
	Issue(subject uuid.UUID, email string, roles model.RoleSet) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	Placeholder() (string, error)
}

type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawIDToken string) (*google.Profile, error)
}

type AuthService struct {
	Users     UserStore
	Tokens    TokenIssuer
	Hasher    PasswordHasher
	Google    IDTokenVerifier // nil when Google login is not configured
	Validator EmailValidator
}

func NewAuthService(users UserStore, tokens TokenIssuer, hasher PasswordHasher, g IDTokenVerifier, v EmailValidator) *AuthService {
	if v == nil {
		v = NewLocalValidator()
	}
	return &AuthService{Users: users, Tokens: tokens, Hasher: hasher, Google: g, Validator: v}
}

type RegisterInput struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// Register creates an account with the "user" role and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = trimOptional(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.Validator.Validate(ctx, in.Email); err != nil {
		if errors.Is(err, ErrEmailRejected) {
			return nil, invalidField("email", err.Error())
		}
		return nil, err
	}

	exists, err := s.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Create(ctx, in.Email, in.Name, hash, model.NewRoleSet(model.RoleUser))
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login authenticates using email + password. Unknown emails, inactive
// accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*model.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !s.Hasher.Verify(in.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Me returns the current record of the authenticated user.
func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*model.UserView, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := u.View()
	return &v, nil
}

// LoginWithGoogle verifies a Google ID token and signs the account in,
// creating it on first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*model.AuthResult, error) {
	if s.Google == nil {
		return nil, fmt.Errorf("%w: google login", ErrNotConfigured)
	}
	if strings.TrimSpace(credential) == "" {
		return nil, invalidField("credential", "required")
	}
	profile, err := s.Google.VerifyIDToken(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return s.LoginWithProfile(ctx, profile)
}

// LoginWithProfile signs in the account matching an already verified
// federated profile.
func (s *AuthService) LoginWithProfile(ctx context.Context, profile *google.Profile) (*model.AuthResult, error) {
	email := normalizeEmail(profile.Email)

	u, err := s.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		placeholder, err := s.Hasher.Placeholder()
		if err != nil {
			return nil, err
		}
		u, err = s.Users.Create(ctx, email, profile.Name, placeholder, model.NewRoleSet(model.RoleUser))
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !u.IsActive:
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *model.User) (*model.AuthResult, error) {
	token, err := s.Tokens.Issue(u.ID, u.Email, u.Roles)
	if err != nil {
		return nil, err
	}
	return &model.AuthResult{Token: token, User: u.View()}, nil
}
