package main

import (
	"net/http"
	"time"

	"StorefrontAPI/internal/auth/google"
	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const bodyLimit = "1M"

// app holds everything the HTTP layer needs. Optional pieces (google,
// states) are nil when not configured.
type app struct {
	logger      *zap.Logger
	corsOrigins []string

	authn  *middleware.Authenticator
	google *google.Provider
	states *google.StateStore

	authSvc     *services.AuthService
	userSvc     *services.UserService
	productSvc  *services.ProductService
	newsSvc     *services.NewsService
	categorySvc *services.CategoryService
	tagSvc      *services.TagService
	contactSvc  *services.ContactRequestService

	registry *prometheus.Registry
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler(a.logger)

	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(a.registry)

	e.Use(echomw.RequestID())
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			a.logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			a.logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	// metrics resolves handler errors, so everything above sees the final status
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(corsConfig(a.corsOrigins)))
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(echomw.Secure())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true, "time": time.Now().UTC()})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	api := e.Group("")
	registerAuthRoutes(api, a)
	registerProductRoutes(api, a)
	registerNewsRoutes(api, a)
	registerCategoryRoutes(api, a)
	registerTagRoutes(api, a)
	registerContactRequestRoutes(api, a)
	registerUserRoutes(api, a)

	return e
}

// corsConfig treats a lone "*" as any origin.
func corsConfig(origins []string) echomw.CORSConfig {
	cfg := echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOrigins = []string{"*"}
		return cfg
	}
	cfg.AllowCredentials = true
	return cfg
}
