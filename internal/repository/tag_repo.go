package repository

import (
	"context"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"github.com/google/uuid"
)

type TagRepository struct {
	DB db.DBTX
}

func NewTagRepository(db db.DBTX) *TagRepository {
	return &TagRepository{DB: db}
}

func scanTag(row scanner) (*model.Tag, error) {
	var t model.Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TagRepository) Create(ctx context.Context, name, slug string) (*model.Tag, error) {
	q := `INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id, name, slug, created_at, updated_at`
	t, err := scanTag(r.DB.QueryRow(ctx, q, name, slug))
	if err != nil {
		return nil, mapError("create tag", err)
	}
	return t, nil
}

func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	q := `SELECT id, name, slug, created_at, updated_at FROM tags WHERE id = $1`
	t, err := scanTag(r.DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, mapError("get tag", err)
	}
	return t, nil
}

func (r *TagRepository) List(ctx context.Context, f TaxonomyFilter, ob query.OrderBy, p query.Pagination) ([]model.Tag, error) {
	w := taxonomyWhere(f)
	q := `SELECT id, name, slug, created_at, updated_at FROM tags` + w.String() +
		orderBy(ob, taxonomySortColumns, "created_at", "id") + w.page(p)

	rows, err := r.DB.Query(ctx, q, w.args...)
	if err != nil {
		return nil, mapError("list tags", err)
	}
	defer rows.Close()

	list := []model.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, mapError("scan tag", err)
		}
		list = append(list, *t)
	}
	return list, mapError("list tags", rows.Err())
}

func (r *TagRepository) Count(ctx context.Context, f TaxonomyFilter) (int, error) {
	w := taxonomyWhere(f)
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM tags`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, mapError("count tags", err)
	}
	return n, nil
}

func (r *TagRepository) Update(ctx context.Context, id uuid.UUID, patch TaxonomyPatch) (*model.Tag, error) {
	s := taxonomySetter(patch)
	if s.empty() {
		return r.GetByID(ctx, id)
	}
	q, args := s.update("tags", id)
	t, err := scanTag(r.DB.QueryRow(ctx, q+` RETURNING id, name, slug, created_at, updated_at`, args...))
	if err != nil {
		return nil, mapError("update tag", err)
	}
	return t, nil
}

func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return mapError("delete tag", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
