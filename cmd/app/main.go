package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StorefrontAPI/external/abstractapi"
	"StorefrontAPI/external/resend"
	"StorefrontAPI/internal/auth"
	"StorefrontAPI/internal/auth/credentials"
	"StorefrontAPI/internal/auth/google"
	"StorefrontAPI/internal/config"
	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/logger"
	"StorefrontAPI/internal/middleware"
	"StorefrontAPI/internal/redis"
	"StorefrontAPI/internal/repository"
	"StorefrontAPI/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		zl.Info("schema is up to date")
	}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	if err != nil {
		return err
	}
	hasher := credentials.NewHasher(cfg.BcryptCost)

	// ======================
	// EXTERNALS (all optional)
	// ======================
	var (
		googleProvider *google.Provider
		googleVerifier services.IDTokenVerifier
		states         *google.StateStore
	)
	if cfg.Google.ClientID != "" {
		googleProvider, err = google.New(ctx, cfg.Google)
		if err != nil {
			return err
		}
		googleVerifier = googleProvider
	}

	if cfg.Redis.Addr != "" {
		rc, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rc.Close()
		states = google.NewStateStore(rc.Client)
	} else if cfg.Google.CodeFlowEnabled() {
		zl.Warn("REDIS_ADDR not set, google redirect login disabled")
	}

	var emailValidator services.EmailValidator = services.NewLocalValidator()
	if cfg.EmailReputation.Enabled {
		emailValidator, err = abstractapi.NewAbstractReputationValidator(cfg.EmailReputation.APIKey, zl)
		if err != nil {
			return err
		}
	}

	var notifier services.ContactNotifier
	if cfg.Mail.ResendAPIKey != "" {
		notifier, err = resend.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From)
		if err != nil {
			return err
		}
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	newsRepo := repository.NewNewsRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	contactRepo := repository.NewContactRequestRepository(pool)

	// ======================
	// SERVICES
	// ======================
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &app{
		logger:      zl,
		corsOrigins: cfg.App.CORSOrigins,
		authn:       middleware.NewAuthenticator(tokens, userRepo, zl),
		google:      googleProvider,
		states:      states,
		authSvc:     services.NewAuthService(userRepo, tokens, hasher, googleVerifier, emailValidator),
		userSvc:     services.NewUserService(userRepo),
		productSvc:  services.NewProductService(productRepo),
		newsSvc:     services.NewNewsService(newsRepo),
		categorySvc: services.NewCategoryService(categoryRepo),
		tagSvc:      services.NewTagService(tagRepo),
		contactSvc:  services.NewContactRequestService(contactRepo, notifier, cfg.Mail.NotifyTo, zl),
		registry:    registry,
	}

	// ======================
	// ECHO
	// ======================
	e := newServer(a)
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	errCh := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := e.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
