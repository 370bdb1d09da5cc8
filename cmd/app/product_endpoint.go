package main

import (
	"net/http"

	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerProductRoutes(g *echo.Group, a *app) {
	ps := a.productSvc

	// PUBLIC: active products only
	g.GET("/products", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		page, err := ps.ListPublic(c.Request().Context(), q, c.QueryParam("categorySlug"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	})

	g.GET("/products/:slug", func(c echo.Context) error {
		p, err := ps.GetPublic(c.Request().Context(), pathSlug(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	})

	// EDITOR: writes
	editor := g.Group("/products", a.authn.Authenticate(), middleware.RequireRole(model.RoleEditor))

	editor.POST("", func(c echo.Context) error {
		var req services.CreateProductInput
		if err := bind(c, &req); err != nil {
			return err
		}
		p, err := ps.Create(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, p)
	})

	editor.PUT("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.UpdateProductInput
		if err := bind(c, &req); err != nil {
			return err
		}
		p, err := ps.Update(c.Request().Context(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	})

	editor.DELETE("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := ps.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	// EDITOR: back-office listing, inactive included
	admin := g.Group("/admin/products", a.authn.Authenticate(), middleware.RequireRole(model.RoleEditor))

	admin.GET("", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		isActive, err := boolFilter(c, "isActive")
		if err != nil {
			return err
		}
		page, err := ps.ListAdmin(c.Request().Context(), q, isActive)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	})

	admin.GET("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		p, err := ps.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	})
}
