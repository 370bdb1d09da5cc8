package services

import (
	"context"
	"strings"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
)

// categories and tags sort the same way
var taxonomySorts = query.SortMap{
	Rules: map[string]query.SortRule{
		"name":      {Column: "name", DefaultOrder: query.Asc},
		"createdAt": {Column: "created_at", DefaultOrder: query.Desc},
	},
	Fallback: query.SortRule{Column: "created_at", DefaultOrder: query.Desc},
}

type CategoryStore interface {
	List(ctx context.Context, f repository.TaxonomyFilter, ob query.OrderBy, p query.Pagination) ([]model.Category, error)
	Count(ctx context.Context, f repository.TaxonomyFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Create(ctx context.Context, name, slug string) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.TaxonomyPatch) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TagStore interface {
	List(ctx context.Context, f repository.TaxonomyFilter, ob query.OrderBy, p query.Pagination) ([]model.Tag, error)
	Count(ctx context.Context, f repository.TaxonomyFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	Create(ctx context.Context, name, slug string) (*model.Tag, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.TaxonomyPatch) (*model.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"required,max=120,slug"`
}

type CategoryUpdateInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug *string `json:"slug" validate:"omitempty,max=120,slug"`
}

type TagInput struct {
	Name string `json:"name" validate:"required,max=50"`
	Slug string `json:"slug" validate:"required,max=80,slug"`
}

type TagUpdateInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
	Slug *string `json:"slug" validate:"omitempty,max=80,slug"`
}

type CategoryService struct {
	Categories CategoryStore
}

func NewCategoryService(c CategoryStore) *CategoryService {
	return &CategoryService{Categories: c}
}

func (s *CategoryService) List(ctx context.Context, q query.ListQuery) (*model.Page[model.Category], error) {
	f := repository.TaxonomyFilter{Search: q.Search}
	ob := taxonomySorts.Resolve(q)
	return listPage(ctx, q,
		func(ctx context.Context, p query.Pagination) ([]model.Category, error) {
			return s.Categories.List(ctx, f, ob, p)
		},
		func(ctx context.Context) (int, error) {
			return s.Categories.Count(ctx, f)
		},
	)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.Categories.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.Name, in.Slug = strings.TrimSpace(in.Name), strings.TrimSpace(in.Slug)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.Categories.Create(ctx, in.Name, in.Slug)
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryUpdateInput) (*model.Category, error) {
	in.Name, in.Slug = trimOptional(in.Name), trimOptional(in.Slug)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.Categories.Update(ctx, id, repository.TaxonomyPatch{Name: in.Name, Slug: in.Slug})
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Categories.Delete(ctx, id)
}

type TagService struct {
	Tags TagStore
}

func NewTagService(t TagStore) *TagService {
	return &TagService{Tags: t}
}

func (s *TagService) List(ctx context.Context, q query.ListQuery) (*model.Page[model.Tag], error) {
	f := repository.TaxonomyFilter{Search: q.Search}
	ob := taxonomySorts.Resolve(q)
	return listPage(ctx, q,
		func(ctx context.Context, p query.Pagination) ([]model.Tag, error) {
			return s.Tags.List(ctx, f, ob, p)
		},
		func(ctx context.Context) (int, error) {
			return s.Tags.Count(ctx, f)
		},
	)
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	return s.Tags.GetByID(ctx, id)
}

func (s *TagService) Create(ctx context.Context, in TagInput) (*model.Tag, error) {
	in.Name, in.Slug = strings.TrimSpace(in.Name), strings.TrimSpace(in.Slug)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.Tags.Create(ctx, in.Name, in.Slug)
}

func (s *TagService) Update(ctx context.Context, id uuid.UUID, in TagUpdateInput) (*model.Tag, error) {
	in.Name, in.Slug = trimOptional(in.Name), trimOptional(in.Slug)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.Tags.Update(ctx, id, repository.TaxonomyPatch{Name: in.Name, Slug: in.Slug})
}

func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Tags.Delete(ctx, id)
}
