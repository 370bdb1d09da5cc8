package repository

import (
	"context"
	"testing"

	"StorefrontAPI/internal/model"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRepository_Apply(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	roleID, adminID := uuid.New(), uuid.New()
	categoryID, tagID, productID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO roles").
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(roleID))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("admin@example.com", pgxmock.AnyArg(), "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(adminID))
	mock.ExpectQuery("INSERT INTO roles").
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(roleID))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(adminID, roleID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Books", "books").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(categoryID))
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("Bestseller", "bestseller").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(tagID))
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Node.js basics", "nodejs-basics", pgxmock.AnyArg(), pgxmock.AnyArg(), true, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "inserted"}).AddRow(productID, true))
	mock.ExpectExec("INSERT INTO product_images").
		WithArgs(productID, "https://placehold.co/600x400", pgxmock.AnyArg(), 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM product_tags").
		WithArgs(productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO product_tags").
		WithArgs(productID, tagID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO contact_requests").
		WithArgs("Ivan", "ivan@example.com", pgxmock.AnyArg(), "I would like a consultation.").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()

	res, err := NewSeedRepository(mock).Apply(ctx, SeedData{
		Roles:      []model.Role{model.RoleAdmin},
		Admin:      SeedUser{Email: "admin@example.com", PasswordHash: "hash", Roles: model.NewRoleSet(model.RoleAdmin)},
		Categories: []SeedTaxonomy{{Name: "Books", Slug: "books"}},
		Tags:       []SeedTaxonomy{{Name: "Bestseller", Slug: "bestseller"}},
		Products: []SeedProduct{{
			Title:        "Node.js basics",
			Slug:         "nodejs-basics",
			Price:        decimal.RequireFromString("499.00"),
			IsActive:     true,
			CategorySlug: "books",
			TagSlugs:     []string{"bestseller"},
			Images:       []ImageInput{{URL: "https://placehold.co/600x400"}},
		}},
		Contacts: []SeedContact{{Name: "Ivan", Email: "ivan@example.com", Message: "I would like a consultation."}},
	})
	require.NoError(t, err)
	assert.Equal(t, adminID, res.AdminID)
	assert.Equal(t, 1, res.Products)
	assert.Equal(t, 0, res.Contacts, "existing contact request is not duplicated")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedRepository_UnknownCategoryRollsBack(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectRollback()

	_, err = NewSeedRepository(mock).Apply(ctx, SeedData{
		Admin:    SeedUser{Email: "admin@example.com", PasswordHash: "hash"},
		Products: []SeedProduct{{Title: "Orphan", Slug: "orphan", CategorySlug: "missing"}},
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	assert.NoError(t, mock.ExpectationsWereMet())
}
