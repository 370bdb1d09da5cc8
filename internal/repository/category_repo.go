package repository

import (
	"context"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"github.com/google/uuid"
)

type CategoryRepository struct {
	DB db.DBTX
}

func NewCategoryRepository(db db.DBTX) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// TaxonomyFilter is shared by categories and tags.
type TaxonomyFilter struct {
	Search string
}

// TaxonomyPatch is shared by categories and tags.
type TaxonomyPatch struct {
	Name *string
	Slug *string
}

var taxonomySortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
}

func taxonomyWhere(f TaxonomyFilter) *where {
	w := &where{}
	w.search(f.Search, "name", "slug")
	return w
}

func taxonomySetter(patch TaxonomyPatch) *setter {
	s := &setter{}
	if patch.Name != nil {
		s.set("name", *patch.Name)
	}
	if patch.Slug != nil {
		s.set("slug", *patch.Slug)
	}
	return s
}

func scanCategory(row scanner) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name, slug string) (*model.Category, error) {
	q := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, name, slug, created_at, updated_at`
	c, err := scanCategory(r.DB.QueryRow(ctx, q, name, slug))
	if err != nil {
		return nil, mapError("create category", err)
	}
	return c, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	q := `SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = $1`
	c, err := scanCategory(r.DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, mapError("get category", err)
	}
	return c, nil
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	q := `SELECT id, name, slug, created_at, updated_at FROM categories WHERE slug = $1`
	c, err := scanCategory(r.DB.QueryRow(ctx, q, slug))
	if err != nil {
		return nil, mapError("get category", err)
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context, f TaxonomyFilter, ob query.OrderBy, p query.Pagination) ([]model.Category, error) {
	w := taxonomyWhere(f)
	q := `SELECT id, name, slug, created_at, updated_at FROM categories` + w.String() +
		orderBy(ob, taxonomySortColumns, "created_at", "id") + w.page(p)

	rows, err := r.DB.Query(ctx, q, w.args...)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	list := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapError("scan category", err)
		}
		list = append(list, *c)
	}
	return list, mapError("list categories", rows.Err())
}

func (r *CategoryRepository) Count(ctx context.Context, f TaxonomyFilter) (int, error) {
	w := taxonomyWhere(f)
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM categories`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, mapError("count categories", err)
	}
	return n, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id uuid.UUID, patch TaxonomyPatch) (*model.Category, error) {
	s := taxonomySetter(patch)
	if s.empty() {
		return r.GetByID(ctx, id)
	}
	q, args := s.update("categories", id)
	c, err := scanCategory(r.DB.QueryRow(ctx, q+` RETURNING id, name, slug, created_at, updated_at`, args...))
	if err != nil {
		return nil, mapError("update category", err)
	}
	return c, nil
}

// Delete removes the category; products referencing it keep existing without
// a category.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
