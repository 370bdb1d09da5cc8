package services

import (
	"context"
	"strings"
	"time"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
)

var newsSorts = query.SortMap{
	Rules: map[string]query.SortRule{
		"title":       {Column: "title", DefaultOrder: query.Asc},
		"publishedAt": {Column: "published_at", DefaultOrder: query.Desc},
		"createdAt":   {Column: "created_at", DefaultOrder: query.Desc},
	},
	Fallback: query.SortRule{Column: "created_at", DefaultOrder: query.Desc},
}

type NewsStore interface {
	List(ctx context.Context, f repository.NewsFilter, ob query.OrderBy, p query.Pagination) ([]model.News, error)
	Count(ctx context.Context, f repository.NewsFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.News, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.News, error)
	Create(ctx context.Context, in repository.NewsInput) (*model.News, error)
	Update(ctx context.Context, id uuid.UUID, patch repository.NewsPatch) (*model.News, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NewsService struct {
	News NewsStore
	now  func() time.Time
}

func NewNewsService(news NewsStore) *NewsService {
	return &NewsService{News: news, now: time.Now}
}

type CreateNewsInput struct {
	Title       string   `json:"title" validate:"required,max=250"`
	Slug        string   `json:"slug" validate:"required,max=250,slug"`
	Excerpt     *string  `json:"excerpt" validate:"omitempty,max=500"`
	Content     string   `json:"content" validate:"required"`
	IsPublished *bool    `json:"isPublished"`
	ImageURLs   []string `json:"imageUrls" validate:"omitempty,max=50,dive,required,url,max=2048"`
}

type UpdateNewsInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=250"`
	Slug        *string   `json:"slug" validate:"omitempty,max=250,slug"`
	Excerpt     *string   `json:"excerpt" validate:"omitempty,max=500"`
	Content     *string   `json:"content" validate:"omitempty,min=1"`
	IsPublished *bool     `json:"isPublished"`
	ImageURLs   *[]string `json:"imageUrls" validate:"omitempty,max=50,dive,required,url,max=2048"`
}

func (s *NewsService) list(ctx context.Context, q query.ListQuery, f repository.NewsFilter) (*model.Page[model.News], error) {
	ob := newsSorts.Resolve(q)
	return listPage(ctx, q,
		func(ctx context.Context, p query.Pagination) ([]model.News, error) {
			return s.News.List(ctx, f, ob, p)
		},
		func(ctx context.Context) (int, error) {
			return s.News.Count(ctx, f)
		},
	)
}

// ListPublic lists published articles only.
func (s *NewsService) ListPublic(ctx context.Context, q query.ListQuery) (*model.Page[model.News], error) {
	published := true
	return s.list(ctx, q, repository.NewsFilter{Search: q.Search, IsPublished: &published})
}

// ListAdmin lists drafts too, optionally filtered by the published flag.
func (s *NewsService) ListAdmin(ctx context.Context, q query.ListQuery, isPublished *bool) (*model.Page[model.News], error) {
	return s.list(ctx, q, repository.NewsFilter{Search: q.Search, IsPublished: isPublished})
}

func (s *NewsService) GetPublic(ctx context.Context, slug string) (*model.News, error) {
	return s.News.GetBySlug(ctx, slug, true)
}

func (s *NewsService) Get(ctx context.Context, id uuid.UUID) (*model.News, error) {
	return s.News.GetByID(ctx, id)
}

// Create stores an article written by author. Publishing stamps publishedAt.
func (s *NewsService) Create(ctx context.Context, author model.Identity, in CreateNewsInput) (*model.News, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = trimOptional(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	rec := repository.NewsInput{
		Title:    in.Title,
		Slug:     in.Slug,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		AuthorID: author.ID,
		Images:   imageInputs(in.ImageURLs),
	}
	if in.IsPublished != nil && *in.IsPublished {
		now := s.now()
		rec.IsPublished = true
		rec.PublishedAt = &now
	}
	return s.News.Create(ctx, rec)
}

// Update applies a partial update. Setting isPublished to true restamps
// publishedAt; setting it to false clears it.
func (s *NewsService) Update(ctx context.Context, id uuid.UUID, in UpdateNewsInput) (*model.News, error) {
	in.Title = trimOptional(in.Title)
	in.Slug = trimOptional(in.Slug)
	in.Excerpt = trimOptional(in.Excerpt)
	in.Content = trimOptional(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	patch := repository.NewsPatch{
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		IsPublished: in.IsPublished,
	}
	if in.IsPublished != nil {
		patch.SetPublishedAt = true
		if *in.IsPublished {
			now := s.now()
			patch.PublishedAt = &now
		}
	}
	if in.ImageURLs != nil {
		patch.ReplaceImages = true
		patch.Images = imageInputs(*in.ImageURLs)
	}
	return s.News.Update(ctx, id, patch)
}

func (s *NewsService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.News.Delete(ctx, id)
}
