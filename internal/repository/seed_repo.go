package repository

import (
	"context"
	"fmt"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SeedRepository writes demo content with upserts keyed on natural keys
// (role name, email, slug), so running it twice is harmless.
type SeedRepository struct {
	DB db.DBTX
}

func NewSeedRepository(db db.DBTX) *SeedRepository {
	return &SeedRepository{DB: db}
}

type SeedUser struct {
	Email        string
	Name         *string
	PasswordHash string
	Roles        model.RoleSet
}

type SeedTaxonomy struct {
	Name string
	Slug string
}

type SeedProduct struct {
	Title        string
	Slug         string
	Description  *string
	Price        decimal.Decimal
	IsActive     bool
	CategorySlug string
	TagSlugs     []string
	Images       []ImageInput
}

type SeedNews struct {
	Title       string
	Slug        string
	Excerpt     *string
	Content     string
	IsPublished bool
	Images      []ImageInput
}

type SeedContact struct {
	Name    string
	Email   string
	Phone   *string
	Message string
}

type SeedData struct {
	Roles      []model.Role
	Admin      SeedUser
	Categories []SeedTaxonomy
	Tags       []SeedTaxonomy
	Products   []SeedProduct
	News       []SeedNews
	Contacts   []SeedContact
}

// SeedResult counts what a run touched.
type SeedResult struct {
	AdminID    uuid.UUID
	Categories int
	Tags       int
	Products   int
	News       int
	Contacts   int
}

// Apply writes everything in one transaction.
func (r *SeedRepository) Apply(ctx context.Context, data SeedData) (*SeedResult, error) {
	res := &SeedResult{}
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		for _, role := range data.Roles {
			if _, err := upsertRole(ctx, tx, role); err != nil {
				return err
			}
		}

		adminID, err := seedUser(ctx, tx, data.Admin)
		if err != nil {
			return err
		}
		res.AdminID = adminID

		categories := make(map[string]uuid.UUID, len(data.Categories))
		for _, c := range data.Categories {
			id, err := seedTaxonomy(ctx, tx, "categories", c)
			if err != nil {
				return err
			}
			categories[c.Slug] = id
		}
		res.Categories = len(categories)

		tags := make(map[string]uuid.UUID, len(data.Tags))
		for _, t := range data.Tags {
			id, err := seedTaxonomy(ctx, tx, "tags", t)
			if err != nil {
				return err
			}
			tags[t.Slug] = id
		}
		res.Tags = len(tags)

		for _, p := range data.Products {
			if err := seedProduct(ctx, tx, p, categories, tags); err != nil {
				return err
			}
			res.Products++
		}

		for _, n := range data.News {
			if err := seedNews(ctx, tx, n, adminID); err != nil {
				return err
			}
			res.News++
		}

		for _, c := range data.Contacts {
			inserted, err := seedContact(ctx, tx, c)
			if err != nil {
				return err
			}
			if inserted {
				res.Contacts++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// seedUser creates the user or leaves an existing one untouched; roles are
// only ever added.
func seedUser(ctx context.Context, q querier, u SeedUser) (uuid.UUID, error) {
	var id uuid.UUID
	sql := `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT ((LOWER(email))) DO UPDATE SET email = users.email
		RETURNING id`
	if err := q.QueryRow(ctx, sql, u.Email, u.Name, u.PasswordHash).Scan(&id); err != nil {
		return uuid.Nil, mapError("seed user", err)
	}
	if err := assignRoles(ctx, q, id, u.Roles); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func seedTaxonomy(ctx context.Context, q querier, table string, t SeedTaxonomy) (uuid.UUID, error) {
	var id uuid.UUID
	sql := fmt.Sprintf(`
		INSERT INTO %s (name, slug) VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id`, table)
	if err := q.QueryRow(ctx, sql, t.Name, t.Slug).Scan(&id); err != nil {
		return uuid.Nil, mapError("seed "+table, err)
	}
	return id, nil
}

// seedProduct upserts by slug. Images are written only when the product is
// new; tags are replaced on every run.
func seedProduct(ctx context.Context, q querier, p SeedProduct, categories, tags map[string]uuid.UUID) error {
	var categoryID *uuid.UUID
	if p.CategorySlug != "" {
		id, ok := categories[p.CategorySlug]
		if !ok {
			return fmt.Errorf("%w: product %q references unknown category %q", ErrInvalidReference, p.Slug, p.CategorySlug)
		}
		categoryID = &id
	}
	tagIDs := make([]uuid.UUID, 0, len(p.TagSlugs))
	for _, slug := range p.TagSlugs {
		id, ok := tags[slug]
		if !ok {
			return fmt.Errorf("%w: product %q references unknown tag %q", ErrInvalidReference, p.Slug, slug)
		}
		tagIDs = append(tagIDs, id)
	}

	var (
		id       uuid.UUID
		inserted bool
	)
	sql := `
		INSERT INTO products (title, slug, description, price, is_active, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category_id = EXCLUDED.category_id,
			updated_at = NOW()
		RETURNING id, (xmax = 0)`
	if err := q.QueryRow(ctx, sql, p.Title, p.Slug, p.Description, p.Price, p.IsActive, categoryID).Scan(&id, &inserted); err != nil {
		return mapError("seed product", err)
	}
	if inserted {
		if err := insertImages(ctx, q, "product_images", "product_id", id, p.Images); err != nil {
			return err
		}
	}
	if _, err := q.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1`, id); err != nil {
		return mapError("seed product tags", err)
	}
	return insertProductTags(ctx, q, id, tagIDs)
}

func seedNews(ctx context.Context, q querier, n SeedNews, authorID uuid.UUID) error {
	var (
		id       uuid.UUID
		inserted bool
	)
	sql := `
		INSERT INTO news (title, slug, excerpt, content, is_published, published_at, author_id)
		VALUES ($1, $2, $3, $4, $5, CASE WHEN $5 THEN NOW() END, $6)
		ON CONFLICT (slug) DO UPDATE SET
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			is_published = EXCLUDED.is_published,
			published_at = CASE
				WHEN NOT EXCLUDED.is_published THEN NULL
				ELSE COALESCE(news.published_at, NOW())
			END,
			updated_at = NOW()
		RETURNING id, (xmax = 0)`
	if err := q.QueryRow(ctx, sql, n.Title, n.Slug, n.Excerpt, n.Content, n.IsPublished, authorID).Scan(&id, &inserted); err != nil {
		return mapError("seed news", err)
	}
	if !inserted {
		return nil
	}
	return insertImages(ctx, q, "news_images", "news_id", id, n.Images)
}

// seedContact skips requests already present with the same email and message.
func seedContact(ctx context.Context, q querier, c SeedContact) (bool, error) {
	sql := `
		INSERT INTO contact_requests (name, email, phone, message)
		SELECT $1, $2, $3, $4
		WHERE NOT EXISTS (
			SELECT 1 FROM contact_requests WHERE email = $2 AND message = $4
		)`
	tag, err := q.Exec(ctx, sql, c.Name, c.Email, c.Phone, c.Message)
	if err != nil {
		return false, mapError("seed contact request", err)
	}
	return tag.RowsAffected() == 1, nil
}
