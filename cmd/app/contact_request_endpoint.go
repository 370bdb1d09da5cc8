package main

import (
	"net/http"

	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerContactRequestRoutes(g *echo.Group, a *app) {
	crs := a.contactSvc

	// PUBLIC: contact form
	g.POST("/contact-requests", func(c echo.Context) error {
		var req services.CreateContactRequestInput
		if err := bind(c, &req); err != nil {
			return err
		}
		cr, err := crs.Create(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, cr)
	})

	admin := g.Group("/contact-requests", a.authn.Authenticate(), middleware.RequireRole(model.RoleAdmin))

	admin.GET("", func(c echo.Context) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		status, err := services.ParseContactStatus(c.QueryParam("status"))
		if err != nil {
			return err
		}
		page, err := crs.List(c.Request().Context(), q, status)
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
		cr, err := crs.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cr)
	})

	admin.PUT("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req services.UpdateContactRequestInput
		if err := bind(c, &req); err != nil {
			return err
		}
		cr, err := crs.UpdateStatus(c.Request().Context(), id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cr)
	})

	admin.DELETE("/:id", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := crs.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
}
