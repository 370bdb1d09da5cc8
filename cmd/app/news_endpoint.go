package main

import (
	"net/http"

	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerNewsRoutes(g *echo.Group, a *app) {
	ns := a.newsSvc

	// PUBLIC: published articles only
	g.GET("/news", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		page, err := ns.ListPublic(c.Request().Context(), q)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, page)
	})

	g.GET("/news/:slug", func(c echo.Context) error {
		n, err := ns.GetPublic(c.Request().Context(), pathSlug(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, n)
	})

	editor := g.Group("/news", a.authn.Authenticate(), middleware.RequireRole(model.RoleEditor))

	editor.POST("", func(c echo.Context) error {
		author, ok := middleware.GetIdentity(c)
		if !ok {
			return services.ErrUnauthorized
		}
		var req services.CreateNewsInput
		if err := bind(c, &req); err != nil {
			return err
		}
		n, err := ns.Create(c.Request().Context(), author, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, n)
	})

	editor.PUT("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.UpdateNewsInput
		if err := bind(c, &req); err != nil {
			return err
		}
		n, err := ns.Update(c.Request().Context(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, n)
	})

	editor.DELETE("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := ns.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	admin := g.Group("/admin/news", a.authn.Authenticate(), middleware.RequireRole(model.RoleEditor))

	admin.GET("", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		isPublished, err := boolFilter(c, "isPublished")
		if err != nil {
			return err
		}
		page, err := ns.ListAdmin(c.Request().Context(), q, isPublished)
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
		n, err := ns.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, n)
	})
}
