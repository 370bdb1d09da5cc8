// Package seed loads demo content into an empty or existing database.
package seed

import (
	"context"

	"StorefrontAPI/internal/repository"

	"go.uber.org/zap"
)

type Store interface {
	Apply(ctx context.Context, data repository.SeedData) (*repository.SeedResult, error)
}

// Run builds f and writes it through store.
func Run(ctx context.Context, store Store, h Hasher, f *Fixtures, logger *zap.Logger) error {
	data, err := f.Build(h)
	if err != nil {
		return err
	}
	res, err := store.Apply(ctx, data)
	if err != nil {
		return err
	}
	logger.Info("seed applied",
		zap.String("admin_id", res.AdminID.String()),
		zap.Int("categories", res.Categories),
		zap.Int("tags", res.Tags),
		zap.Int("products", res.Products),
		zap.Int("news", res.News),
		zap.Int("new_contact_requests", res.Contacts),
	)
	return nil
}
