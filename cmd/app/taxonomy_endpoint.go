package main

import (
	"net/http"

	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerCategoryRoutes(g *echo.Group, a *app) {
	cs := a.categorySvc

	g.GET("/categories", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		page, err := cs.List(c.Request().Context(), q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	})

	g.GET("/categories/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		cat, err := cs.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cat)
	})

	admin := g.Group("/categories", a.authn.Authenticate(), middleware.RequireRole(model.RoleAdmin))

	admin.POST("", func(c echo.Context) error {
		var req services.CategoryInput
		if err := bind(c, &req); err != nil {
			return err
		}
		cat, err := cs.Create(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, cat)
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.CategoryUpdateInput
		if err := bind(c, &req); err != nil {
			return err
		}
		cat, err := cs.Update(c.Request().Context(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cat)
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := cs.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func registerTagRoutes(g *echo.Group, a *app) {
	ts := a.tagSvc

	g.GET("/tags", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		page, err := ts.List(c.Request().Context(), q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	})

	g.GET("/tags/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		tag, err := ts.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tag)
	})

	admin := g.Group("/tags", a.authn.Authenticate(), middleware.RequireRole(model.RoleAdmin))

	admin.POST("", func(c echo.Context) error {
		var req services.TagInput
		if err := bind(c, &req); err != nil {
			return err
		}
		tag, err := ts.Create(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, tag)
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.TagUpdateInput
		if err := bind(c, &req); err != nil {
			return err
		}
		tag, err := ts.Update(c.Request().Context(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tag)
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := ts.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
}
