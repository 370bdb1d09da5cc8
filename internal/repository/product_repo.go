package repository

import (
	"context"
	"time"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	DB db.DBTX
}

func NewProductRepository(db db.DBTX) *ProductRepository {
	return &ProductRepository{DB: db}
}

type ProductFilter struct {
	Search       string
	IsActive     *bool
	CategorySlug string
}

type ImageInput struct {
	URL string
	Alt *string
}

type ProductInput struct {
	Title       string
	Slug        string
	Description *string
	Price       decimal.Decimal
	IsActive    bool
	CategoryID  *uuid.UUID
	Images      []ImageInput
	TagIDs      []uuid.UUID
}

// ProductPatch holds the fields of a partial update. Side collections are
// only touched when their Replace flag is set.
type ProductPatch struct {
	Title         *string
	Slug          *string
	Description   *string
	Price         *decimal.Decimal
	IsActive      *bool
	CategoryID    *uuid.UUID
	ReplaceImages bool
	Images        []ImageInput
	ReplaceTags   bool
	TagIDs        []uuid.UUID
}

var productSortColumns = map[string]string{
	"created_at": "p.created_at",
	"price":      "p.price",
	"title":      "p.title",
}

const productSelect = `
	SELECT p.id, p.title, p.slug, p.description, p.price, p.is_active, p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.slug, c.created_at, c.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row scanner) (*model.Product, error) {
	var (
		p                      model.Product
		catID                  *uuid.UUID
		catName, catSlug       *string
		catCreated, catUpdated *time.Time
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.IsActive, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug, &catCreated, &catUpdated); err != nil {
		return nil, err
	}
	if catID != nil {
		p.Category = &model.Category{ID: *catID, Name: *catName, Slug: *catSlug, CreatedAt: *catCreated, UpdatedAt: *catUpdated}
	}
	p.Images = []model.Image{}
	p.Tags = []model.Tag{}
	return &p, nil
}

func productWhere(f ProductFilter) *where {
	w := &where{}
	w.search(f.Search, "p.title", "p.description")
	if f.IsActive != nil {
		w.eq("p.is_active", *f.IsActive)
	}
	if f.CategorySlug != "" {
		w.eq("c.slug", f.CategorySlug)
	}
	return w
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter, ob query.OrderBy, p query.Pagination) ([]model.Product, error) {
	w := productWhere(f)
	q := productSelect + w.String() + orderBy(ob, productSortColumns, "created_at", "p.id") + w.page(p)

	rows, err := r.DB.Query(ctx, q, w.args...)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, mapError("scan product", err)
		}
		list = append(list, *prod)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list products", err)
	}
	rows.Close()

	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepository) Count(ctx context.Context, f ProductFilter) (int, error) {
	w := productWhere(f)
	q := `SELECT COUNT(*) FROM products p LEFT JOIN categories c ON c.id = p.category_id` + w.String()
	var n int
	if err := r.DB.QueryRow(ctx, q, w.args...).Scan(&n); err != nil {
		return 0, mapError("count products", err)
	}
	return n, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.getOne(ctx, `p.id = $1`, id)
}

// GetBySlug finds a product by slug. With activeOnly, inactive products are
// reported as not found.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string, activeOnly bool) (*model.Product, error) {
	cond := `p.slug = $1`
	if activeOnly {
		cond += ` AND p.is_active = TRUE`
	}
	return r.getOne(ctx, cond, slug)
}

func (r *ProductRepository) getOne(ctx context.Context, cond string, arg any) (*model.Product, error) {
	prod, err := scanProduct(r.DB.QueryRow(ctx, productSelect+` WHERE `+cond, arg))
	if err != nil {
		return nil, mapError("get product", err)
	}
	list := []model.Product{*prod}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *ProductRepository) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	var id uuid.UUID
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		q := `
			INSERT INTO products (title, slug, description, price, is_active, category_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`
		if err := tx.QueryRow(ctx, q, in.Title, in.Slug, in.Description, in.Price, in.IsActive, in.CategoryID).Scan(&id); err != nil {
			return mapError("create product", err)
		}
		if err := insertImages(ctx, tx, "product_images", "product_id", id, in.Images); err != nil {
			return err
		}
		return insertProductTags(ctx, tx, id, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update applies patch in a single transaction. Replaced side collections are
// deleted and re-inserted as a whole.
func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*model.Product, error) {
	s := &setter{}
	if patch.Title != nil {
		s.set("title", *patch.Title)
	}
	if patch.Slug != nil {
		s.set("slug", *patch.Slug)
	}
	if patch.Description != nil {
		s.set("description", *patch.Description)
	}
	if patch.Price != nil {
		s.set("price", *patch.Price)
	}
	if patch.IsActive != nil {
		s.set("is_active", *patch.IsActive)
	}
	if patch.CategoryID != nil {
		s.set("category_id", *patch.CategoryID)
	}

	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		q, args := s.update("products", id)
		tag, err := tx.Exec(ctx, q, args...)
		if err != nil {
			return mapError("update product", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if patch.ReplaceImages {
			if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
				return mapError("clear product images", err)
			}
			if err := insertImages(ctx, tx, "product_images", "product_id", id, patch.Images); err != nil {
				return err
			}
		}
		if patch.ReplaceTags {
			if _, err := tx.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1`, id); err != nil {
				return mapError("clear product tags", err)
			}
			if err := insertProductTags(ctx, tx, id, patch.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// hydrate loads images and tags of every product in list with one query each.
func (r *ProductRepository) hydrate(ctx context.Context, list []model.Product) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[uuid.UUID]int, len(list))
	for i := range list {
		ids[i] = list[i].ID.String()
		index[list[i].ID] = i
	}

	images, err := loadImages(ctx, r.DB, "product_images", "product_id", ids)
	if err != nil {
		return err
	}
	for owner, imgs := range images {
		list[index[owner]].Images = imgs
	}

	q := `
		SELECT pt.product_id, t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM product_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.product_id = ANY($1::uuid[])
		ORDER BY t.name, t.id`
	rows, err := r.DB.Query(ctx, q, ids)
	if err != nil {
		return mapError("load product tags", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			owner uuid.UUID
			t     model.Tag
		)
		if err := rows.Scan(&owner, &t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return mapError("scan product tag", err)
		}
		i := index[owner]
		list[i].Tags = append(list[i].Tags, t)
	}
	return mapError("load product tags", rows.Err())
}

func insertProductTags(ctx context.Context, q querier, productID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := q.Exec(ctx, `INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, productID, tagID); err != nil {
			return mapError("insert product tag", err)
		}
	}
	return nil
}
