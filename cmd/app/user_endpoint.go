package main

import (
	"net/http"

	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerUserRoutes(g *echo.Group, a *app) {
	us := a.userSvc
	admin := g.Group("/admin/users", a.authn.Authenticate(), middleware.RequireRole(model.RoleAdmin))

	admin.GET("", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		isActive, err := boolFilter(c, "isActive")
		if err != nil {
			return err
		}
		page, err := us.List(c.Request().Context(), q, isActive)
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
		u, err := us.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, u)
	})

	admin.PUT("/:id", func(c echo.Context) error {
		actor, ok := middleware.GetIdentity(c)
		if !ok {
			return services.ErrUnauthorized
		}
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.UpdateUserInput
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := us.Update(c.Request().Context(), actor, id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, u)
	})

	admin.PUT("/:id/roles", func(c echo.Context) error {
		actor, ok := middleware.GetIdentity(c)
		if !ok {
			return services.ErrUnauthorized
		}
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.ReplaceRolesInput
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := us.ReplaceRoles(c.Request().Context(), actor, id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, u)
	})
}
