package repository

import (
	"context"
	"strings"

	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB db.DBTX
}

func NewUserRepository(db db.DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

type UserFilter struct {
	Search   string
	IsActive *bool
}

type UserPatch struct {
	Name     *string
	IsActive *bool
}

var userSortColumns = map[string]string{
	"created_at": "u.created_at",
	"email":      "u.email",
}

const userSelect = `
	SELECT u.id, u.email, u.name, u.password_hash, u.is_active, u.created_at, u.updated_at,
	       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id`

func scanUser(row scanner) (*model.User, error) {
	var (
		u     model.User
		roles []string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &roles); err != nil {
		return nil, err
	}
	set := make([]model.Role, len(roles))
	for i, r := range roles {
		set[i] = model.Role(r)
	}
	u.Roles = model.NewRoleSet(set...)
	return &u, nil
}

func userWhere(f UserFilter) *where {
	w := &where{}
	w.search(f.Search, "u.email", "u.name")
	if f.IsActive != nil {
		w.eq("u.is_active", *f.IsActive)
	}
	return w
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, userSelect+` WHERE u.id = $1 GROUP BY u.id`, id))
	if err != nil {
		return nil, mapError("get user", err)
	}
	return u, nil
}

// GetByEmail matches case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, userSelect+` WHERE LOWER(u.email) = LOWER($1) GROUP BY u.id`, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError("get user by email", err)
	}
	return u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`
	if err := r.DB.QueryRow(ctx, q, strings.TrimSpace(email)).Scan(&exists); err != nil {
		return false, mapError("check email", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, f UserFilter, ob query.OrderBy, p query.Pagination) ([]model.User, error) {
	w := userWhere(f)
	q := userSelect + w.String() + ` GROUP BY u.id` + orderBy(ob, userSortColumns, "created_at", "u.id") + w.page(p)

	rows, err := r.DB.Query(ctx, q, w.args...)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("scan user", err)
		}
		list = append(list, *u)
	}
	return list, mapError("list users", rows.Err())
}

func (r *UserRepository) Count(ctx context.Context, f UserFilter) (int, error) {
	w := userWhere(f)
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, mapError("count users", err)
	}
	return n, nil
}

// Create inserts the user and its role assignments in one transaction.
// Missing roles are created on the way.
func (r *UserRepository) Create(ctx context.Context, email string, name *string, passwordHash string, roles model.RoleSet) (*model.User, error) {
	var id uuid.UUID
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		q := `INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(email)), name, passwordHash).Scan(&id); err != nil {
			return mapError("create user", err)
		}
		return assignRoles(ctx, tx, id, roles)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*model.User, error) {
	s := &setter{}
	if patch.Name != nil {
		s.set("name", *patch.Name)
	}
	if patch.IsActive != nil {
		s.set("is_active", *patch.IsActive)
	}
	if !s.empty() {
		q, args := s.update("users", id)
		tag, err := r.DB.Exec(ctx, q, args...)
		if err != nil {
			return nil, mapError("update user", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// ReplaceRoles swaps the whole role set of a user atomically: existing
// assignments are deleted, then the new set is inserted.
func (r *UserRepository) ReplaceRoles(ctx context.Context, id uuid.UUID, roles model.RoleSet) (*model.User, error) {
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE users SET updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return mapError("touch user", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
			return mapError("clear user roles", err)
		}
		return assignRoles(ctx, tx, id, roles)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// EnsureRole returns the id of the named role, creating it if absent.
func (r *UserRepository) EnsureRole(ctx context.Context, role model.Role) (uuid.UUID, error) {
	return upsertRole(ctx, r.DB, role)
}

func upsertRole(ctx context.Context, q querier, role model.Role) (uuid.UUID, error) {
	var id uuid.UUID
	sql := `
		INSERT INTO roles (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	if err := q.QueryRow(ctx, sql, string(role)).Scan(&id); err != nil {
		return uuid.Nil, mapError("upsert role", err)
	}
	return id, nil
}

func assignRoles(ctx context.Context, q querier, userID uuid.UUID, roles model.RoleSet) error {
	for _, role := range roles {
		roleID, err := upsertRole(ctx, q, role)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, roleID); err != nil {
			return mapError("assign role", err)
		}
	}
	return nil
}
