package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"StorefrontAPI/internal/auth/google"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUsers) Create(ctx context.Context, email string, name *string, hash string, roles model.RoleSet) (*model.User, error) {
	f.mu.Lock()
	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        roles,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	f.mu.Unlock()
	return f.GetByID(ctx, u.ID)
}

func (f *fakeUsers) List(ctx context.Context, flt repository.UserFilter, ob query.OrderBy, p query.Pagination) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return window(out, p), nil
}

func (f *fakeUsers) Count(ctx context.Context, flt repository.UserFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeUsers) Update(ctx context.Context, id uuid.UUID, patch repository.UserPatch) (*model.User, error) {
	f.mu.Lock()
	u, ok := f.users[id]
	if !ok {
		f.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = patch.Name
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) ReplaceRoles(ctx context.Context, id uuid.UUID, roles model.RoleSet) (*model.User, error) {
	f.mu.Lock()
	u, ok := f.users[id]
	if !ok {
		f.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	u.Roles = roles
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

func window[T any](items []T, p query.Pagination) []T {
	if p.Skip >= len(items) {
		return []T{}
	}
	end := p.Skip + p.Take
	if end > len(items) {
		end = len(items)
	}
	return items[p.Skip:end]
}

// fakeHasher is reversible on purpose; only the contract matters here.
type fakeHasher struct {
	placeholders int
}

func (h *fakeHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }
func (h *fakeHasher) Verify(pw, hash string) bool    { return hash == "hashed:"+pw }
func (h *fakeHasher) Placeholder() (string, error) {
	h.placeholders++
	return "placeholder:" + uuid.NewString(), nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(sub uuid.UUID, email string, roles model.RoleSet) (string, error) {
	return "token:" + sub.String() + ":" + strings.Join(roles.Names(), ","), nil
}

type fakeGoogle struct {
	profile *google.Profile
	err     error
}

func (g *fakeGoogle) VerifyIDToken(ctx context.Context, raw string) (*google.Profile, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.profile, nil
}

type rejectingValidator struct{}

func (rejectingValidator) Validate(ctx context.Context, email string) error {
	return fmt.Errorf("%w: disposable email is not allowed", ErrEmailRejected)
}

type fakeProducts struct {
	items      []model.Product
	lastFilter repository.ProductFilter
	lastOrder  query.OrderBy
	lastPatch  repository.ProductPatch
	created    *repository.ProductInput
}

func (f *fakeProducts) matches(p model.Product, flt repository.ProductFilter) bool {
	if flt.IsActive != nil && p.IsActive != *flt.IsActive {
		return false
	}
	if flt.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(flt.Search)) {
		return false
	}
	return true
}

func (f *fakeProducts) List(ctx context.Context, flt repository.ProductFilter, ob query.OrderBy, p query.Pagination) ([]model.Product, error) {
	f.lastFilter, f.lastOrder = flt, ob
	var out []model.Product
	for _, it := range f.items {
		if f.matches(it, flt) {
			out = append(out, it)
		}
	}
	less := func(a, b model.Product) bool {
		switch ob.Column {
		case "price":
			return a.Price.LessThan(b.Price)
		case "title":
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ob.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return window(out, p), nil
}

func (f *fakeProducts) Count(ctx context.Context, flt repository.ProductFilter) (int, error) {
	n := 0
	for _, it := range f.items {
		if f.matches(it, flt) {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProducts) GetBySlug(ctx context.Context, slug string, activeOnly bool) (*model.Product, error) {
	for i := range f.items {
		if f.items[i].Slug == slug && (!activeOnly || f.items[i].IsActive) {
			return &f.items[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProducts) Create(ctx context.Context, in repository.ProductInput) (*model.Product, error) {
	f.created = &in
	p := model.Product{ID: uuid.New(), Title: in.Title, Slug: in.Slug, Price: in.Price, IsActive: in.IsActive}
	f.items = append(f.items, p)
	return &p, nil
}

func (f *fakeProducts) Update(ctx context.Context, id uuid.UUID, patch repository.ProductPatch) (*model.Product, error) {
	f.lastPatch = patch
	return f.GetByID(ctx, id)
}

func (f *fakeProducts) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
