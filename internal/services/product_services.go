package services

import (
	"context"
	"strings"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// numeric(12,2)
var maxPrice = decimal.New(1, 10)

var productSorts = query.SortMap{
	Rules: map[string]query.SortRule{
		"price":     {Column: "price", DefaultOrder: query.Desc},
		"title":     {Column: "title", DefaultOrder: query.Asc},
		"createdAt": {Column: "created_at", DefaultOrder: query.Desc},
	},
	Fallback: query.SortRule{Column: "created_at", DefaultOrder: query.Desc},
}

type ProductStore interface {
	List(ctx context.Context, f repository.ProductFilter, ob query.OrderBy, p query.Pagination) ([]model.Product, error)
	Count(ctx context.Context, f repository.ProductFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string, activeOnly bool) (*model.Product, error)
	Create(ctx context.Context, in repository.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductService struct {
	Products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{Products: products}
}

type CreateProductInput struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Slug        string           `json:"slug" validate:"required,max=250,slug"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	IsActive    *bool            `json:"isActive"`
	CategoryID  *uuid.UUID       `json:"categoryId"`
	ImageURLs   []string         `json:"imageUrls" validate:"omitempty,max=50,dive,required,url,max=2048"`
	TagIDs      []uuid.UUID      `json:"tagIds" validate:"omitempty,max=50"`
}

// UpdateProductInput is a partial update. A nil imageUrls or tagIds leaves
// that collection untouched; an empty list clears it.
type UpdateProductInput struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Slug        *string          `json:"slug" validate:"omitempty,max=250,slug"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	IsActive    *bool            `json:"isActive"`
	CategoryID  *uuid.UUID       `json:"categoryId"`
	ImageURLs   *[]string        `json:"imageUrls" validate:"omitempty,max=50,dive,required,url,max=2048"`
	TagIDs      *[]uuid.UUID     `json:"tagIds" validate:"omitempty,max=50"`
}

func checkPrice(p *decimal.Decimal) error {
	if p == nil {
		return nil
	}
	if p.IsNegative() {
		return invalidField("price", "min")
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return invalidField("price", "max")
	}
	if !p.Equal(p.Round(2)) {
		return invalidField("price", "precision")
	}
	return nil
}

func imageInputs(urls []string) []repository.ImageInput {
	out := make([]repository.ImageInput, len(urls))
	for i, u := range urls {
		out[i] = repository.ImageInput{URL: strings.TrimSpace(u)}
	}
	return out
}

func (s *ProductService) list(ctx context.Context, q query.ListQuery, f repository.ProductFilter) (*model.Page[model.Product], error) {
	ob := productSorts.Resolve(q)
	return listPage(ctx, q,
		func(ctx context.Context, p query.Pagination) ([]model.Product, error) {
			return s.Products.List(ctx, f, ob, p)
		},
		func(ctx context.Context) (int, error) {
			return s.Products.Count(ctx, f)
		},
	)
}

// ListPublic lists active products only, optionally within one category.
func (s *ProductService) ListPublic(ctx context.Context, q query.ListQuery, categorySlug string) (*model.Page[model.Product], error) {
	active := true
	return s.list(ctx, q, repository.ProductFilter{
		Search:       q.Search,
		IsActive:     &active,
		CategorySlug: strings.TrimSpace(categorySlug),
	})
}

// ListAdmin lists every product, optionally filtered by the active flag.
func (s *ProductService) ListAdmin(ctx context.Context, q query.ListQuery, isActive *bool) (*model.Page[model.Product], error) {
	return s.list(ctx, q, repository.ProductFilter{Search: q.Search, IsActive: isActive})
}

func (s *ProductService) GetPublic(ctx context.Context, slug string) (*model.Product, error) {
	return s.Products.GetBySlug(ctx, slug, true)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.Products.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = trimOptional(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	return s.Products.Create(ctx, repository.ProductInput{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       *in.Price,
		IsActive:    isActive,
		CategoryID:  in.CategoryID,
		Images:      imageInputs(in.ImageURLs),
		TagIDs:      in.TagIDs,
	})
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*model.Product, error) {
	in.Title = trimOptional(in.Title)
	in.Slug = trimOptional(in.Slug)
	in.Description = trimOptional(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}

	patch := repository.ProductPatch{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		IsActive:    in.IsActive,
		CategoryID:  in.CategoryID,
	}
	if in.ImageURLs != nil {
		patch.ReplaceImages = true
		patch.Images = imageInputs(*in.ImageURLs)
	}
	if in.TagIDs != nil {
		patch.ReplaceTags = true
		patch.TagIDs = *in.TagIDs
	}
	return s.Products.Update(ctx, id, patch)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Products.Delete(ctx, id)
}
