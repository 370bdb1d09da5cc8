package services

import (
	"context"
	"errors"
)

// ErrEmailRejected is wrapped by validators that refuse an address on policy
// grounds. Other errors are infrastructure failures.
var ErrEmailRejected = errors.New("email address rejected")

// EmailValidator vets an address before an account is created for it.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

// LocalValidator accepts every address that passed the format checks.
type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(ctx context.Context, email string) error {
	return nil
}
