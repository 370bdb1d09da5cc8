package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"` // never JSON-encode
	IsActive     bool      `json:"isActive"`
	Roles        RoleSet   `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserView is the public shape returned by the auth endpoints.
type UserView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  *string   `json:"name"`
	Roles []string  `json:"roles"`
}

func (u *User) View() UserView {
	return UserView{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Roles: u.Roles.Names(),
	}
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	ID    uuid.UUID
	Email string
	Roles RoleSet
}

// AuthResult is returned by register, login and federated login.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
