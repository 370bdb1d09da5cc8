package services

import (
	"context"
	"fmt"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
)

var userSorts = query.SortMap{
	Rules: map[string]query.SortRule{
		"email":     {Column: "email", DefaultOrder: query.Asc},
		"createdAt": {Column: "created_at", DefaultOrder: query.Desc},
	},
	Fallback: query.SortRule{Column: "created_at", DefaultOrder: query.Desc},
}

// UserService backs user administration.
type UserService struct {
	Users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{Users: users}
}

type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"isActive"`
}

type ReplaceRolesInput struct {
	Roles []string `json:"roles" validate:"required,min=1,max=20,dive,required,min=2,max=50"`
}

func (s *UserService) List(ctx context.Context, q query.ListQuery, isActive *bool) (*model.Page[model.UserView], error) {
	f := repository.UserFilter{Search: q.Search, IsActive: isActive}
	ob := userSorts.Resolve(q)
	page, err := listPage(ctx, q,
		func(ctx context.Context, p query.Pagination) ([]model.User, error) {
			return s.Users.List(ctx, f, ob, p)
		},
		func(ctx context.Context) (int, error) {
			return s.Users.Count(ctx, f)
		},
	)
	if err != nil {
		return nil, err
	}
	views := make([]model.UserView, len(page.Items))
	for i := range page.Items {
		views[i] = page.Items[i].View()
	}
	return &model.Page[model.UserView]{Items: views, Total: page.Total, Page: page.Page, PageSize: page.PageSize}, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.Users.GetByID(ctx, id)
}

// Update changes profile fields and the active flag. An identity cannot
// deactivate itself.
func (s *UserService) Update(ctx context.Context, actor model.Identity, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	in.Name = trimOptional(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if id == actor.ID && in.IsActive != nil && !*in.IsActive {
		return nil, fmt.Errorf("%w: cannot deactivate yourself", ErrSelfActionDenied)
	}
	return s.Users.Update(ctx, id, repository.UserPatch{Name: in.Name, IsActive: in.IsActive})
}

// ReplaceRoles swaps the target's role set for the given one. Unknown role
// names are created. An identity cannot drop a guarded role from itself.
func (s *UserService) ReplaceRoles(ctx context.Context, actor model.Identity, id uuid.UUID, in ReplaceRolesInput) (*model.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	roles, err := model.RoleSetFromNames(in.Roles)
	if err != nil {
		return nil, invalidField("roles", err.Error())
	}

	if id == actor.ID {
		for _, held := range actor.Roles {
			if held.Guarded() && !roles.Has(held) {
				return nil, fmt.Errorf("%w: cannot remove your own %s role", ErrSelfActionDenied, held)
			}
		}
	}
	return s.Users.ReplaceRoles(ctx, id, roles)
}
