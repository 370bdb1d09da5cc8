package repository

import (
	"context"
	"time"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NewsRepository struct {
	DB db.DBTX
}

func NewNewsRepository(db db.DBTX) *NewsRepository {
	return &NewsRepository{DB: db}
}

type NewsFilter struct {
	Search      string
	IsPublished *bool
}

type NewsInput struct {
	Title       string
	Slug        string
	Excerpt     *string
	Content     string
	IsPublished bool
	PublishedAt *time.Time
	AuthorID    uuid.UUID
	Images      []ImageInput
}

type NewsPatch struct {
	Title       *string
	Slug        *string
	Excerpt     *string
	Content     *string
	IsPublished *bool
	// SetPublishedAt writes PublishedAt, nil included.
	SetPublishedAt bool
	PublishedAt    *time.Time
	ReplaceImages  bool
	Images         []ImageInput
}

var newsSortColumns = map[string]string{
	"created_at":   "n.created_at",
	"title":        "n.title",
	"published_at": "n.published_at",
}

const newsSelect = `
	SELECT n.id, n.title, n.slug, n.excerpt, n.content, n.is_published, n.published_at, n.author_id,
	       n.created_at, n.updated_at, u.id, u.email, u.name
	FROM news n
	JOIN users u ON u.id = n.author_id`

func scanNews(row scanner) (*model.News, error) {
	var (
		n model.News
		a model.Author
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.IsPublished, &n.PublishedAt, &n.AuthorID,
		&n.CreatedAt, &n.UpdatedAt, &a.ID, &a.Email, &a.Name); err != nil {
		return nil, err
	}
	n.Author = &a
	n.Images = []model.Image{}
	return &n, nil
}

func newsWhere(f NewsFilter) *where {
	w := &where{}
	w.search(f.Search, "n.title", "n.excerpt", "n.content")
	if f.IsPublished != nil {
		w.eq("n.is_published", *f.IsPublished)
	}
	return w
}

func (r *NewsRepository) List(ctx context.Context, f NewsFilter, ob query.OrderBy, p query.Pagination) ([]model.News, error) {
	w := newsWhere(f)
	q := newsSelect + w.String() + orderBy(ob, newsSortColumns, "created_at", "n.id") + w.page(p)

	rows, err := r.DB.Query(ctx, q, w.args...)
	if err != nil {
		return nil, mapError("list news", err)
	}
	defer rows.Close()

	list := []model.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, mapError("scan news", err)
		}
		list = append(list, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list news", err)
	}
	rows.Close()

	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *NewsRepository) Count(ctx context.Context, f NewsFilter) (int, error) {
	w := newsWhere(f)
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM news n`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, mapError("count news", err)
	}
	return n, nil
}

func (r *NewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.News, error) {
	return r.getOne(ctx, `n.id = $1`, id)
}

// GetBySlug finds an article by slug. With publishedOnly, drafts are reported
// as not found.
func (r *NewsRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.News, error) {
	cond := `n.slug = $1`
	if publishedOnly {
		cond += ` AND n.is_published = TRUE`
	}
	return r.getOne(ctx, cond, slug)
}

func (r *NewsRepository) getOne(ctx context.Context, cond string, arg any) (*model.News, error) {
	n, err := scanNews(r.DB.QueryRow(ctx, newsSelect+` WHERE `+cond, arg))
	if err != nil {
		return nil, mapError("get news", err)
	}
	list := []model.News{*n}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *NewsRepository) Create(ctx context.Context, in NewsInput) (*model.News, error) {
	var id uuid.UUID
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		q := `
			INSERT INTO news (title, slug, excerpt, content, is_published, published_at, author_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`
		if err := tx.QueryRow(ctx, q, in.Title, in.Slug, in.Excerpt, in.Content, in.IsPublished, in.PublishedAt, in.AuthorID).Scan(&id); err != nil {
			return mapError("create news", err)
		}
		return insertImages(ctx, tx, "news_images", "news_id", id, in.Images)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *NewsRepository) Update(ctx context.Context, id uuid.UUID, patch NewsPatch) (*model.News, error) {
	s := &setter{}
	if patch.Title != nil {
		s.set("title", *patch.Title)
	}
	if patch.Slug != nil {
		s.set("slug", *patch.Slug)
	}
	if patch.Excerpt != nil {
		s.set("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		s.set("content", *patch.Content)
	}
	if patch.IsPublished != nil {
		s.set("is_published", *patch.IsPublished)
	}
	if patch.SetPublishedAt {
		s.set("published_at", patch.PublishedAt)
	}

	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		q, args := s.update("news", id)
		tag, err := tx.Exec(ctx, q, args...)
		if err != nil {
			return mapError("update news", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if !patch.ReplaceImages {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM news_images WHERE news_id = $1`, id); err != nil {
			return mapError("clear news images", err)
		}
		return insertImages(ctx, tx, "news_images", "news_id", id, patch.Images)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return mapError("delete news", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NewsRepository) hydrate(ctx context.Context, list []model.News) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[uuid.UUID]int, len(list))
	for i := range list {
		ids[i] = list[i].ID.String()
		index[list[i].ID] = i
	}
	images, err := loadImages(ctx, r.DB, "news_images", "news_id", ids)
	if err != nil {
		return err
	}
	for owner, imgs := range images {
		list[index[owner]].Images = imgs
	}
	return nil
}
