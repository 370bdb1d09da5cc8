package main

import (
	"strings"

	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func listQuery(c echo.Context) (query.ListQuery, error) {
	return query.Parse(c.QueryParams())
}

func boolFilter(c echo.Context, key string) (*bool, error) {
	return query.OptionalBool(c.QueryParams(), key)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &services.ValidationError{
			Message: "invalid id",
			Fields:  map[string]string{"id": "uuid"},
		}
	}
	return id, nil
}

func pathSlug(c echo.Context) string {
	return strings.TrimSpace(c.Param("slug"))
}

// bind decodes the JSON body into dst. Decode failures are client errors.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return &services.ValidationError{Message: "invalid request body"}
	}
	return nil
}
