package repository

import (
	"context"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"github.com/google/uuid"
)

type ContactRequestRepository struct {
	DB db.DBTX
}

func NewContactRequestRepository(db db.DBTX) *ContactRequestRepository {
	return &ContactRequestRepository{DB: db}
}

type ContactFilter struct {
	Search string
	Status model.ContactStatus
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   *string
	Message string
}

var contactSortColumns = map[string]string{
	"created_at": "created_at",
}

const contactColumns = `id, name, email, phone, message, status, created_at, updated_at`

func scanContact(row scanner) (*model.ContactRequest, error) {
	var c model.ContactRequest
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func contactWhere(f ContactFilter) *where {
	w := &where{}
	w.search(f.Search, "name", "email", "message")
	if f.Status != "" {
		w.eq("status", string(f.Status))
	}
	return w
}

func (r *ContactRequestRepository) Create(ctx context.Context, in ContactInput) (*model.ContactRequest, error) {
	q := `INSERT INTO contact_requests (name, email, phone, message) VALUES ($1, $2, $3, $4) RETURNING ` + contactColumns
	c, err := scanContact(r.DB.QueryRow(ctx, q, in.Name, in.Email, in.Phone, in.Message))
	if err != nil {
		return nil, mapError("create contact request", err)
	}
	return c, nil
}

func (r *ContactRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContactRequest, error) {
	c, err := scanContact(r.DB.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_requests WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get contact request", err)
	}
	return c, nil
}

func (r *ContactRequestRepository) List(ctx context.Context, f ContactFilter, ob query.OrderBy, p query.Pagination) ([]model.ContactRequest, error) {
	w := contactWhere(f)
	q := `SELECT ` + contactColumns + ` FROM contact_requests` + w.String() +
		orderBy(ob, contactSortColumns, "created_at", "id") + w.page(p)

	rows, err := r.DB.Query(ctx, q, w.args...)
	if err != nil {
		return nil, mapError("list contact requests", err)
	}
	defer rows.Close()

	list := []model.ContactRequest{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, mapError("scan contact request", err)
		}
		list = append(list, *c)
	}
	return list, mapError("list contact requests", rows.Err())
}

func (r *ContactRequestRepository) Count(ctx context.Context, f ContactFilter) (int, error) {
	w := contactWhere(f)
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM contact_requests`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, mapError("count contact requests", err)
	}
	return n, nil
}

func (r *ContactRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) (*model.ContactRequest, error) {
	q := `UPDATE contact_requests SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + contactColumns
	c, err := scanContact(r.DB.QueryRow(ctx, q, string(status), id))
	if err != nil {
		return nil, mapError("update contact request", err)
	}
	return c, nil
}

func (r *ContactRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM contact_requests WHERE id = $1`, id)
	if err != nil {
		return mapError("delete contact request", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
