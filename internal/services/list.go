package services

import (
	"context"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"

	"golang.org/x/sync/errgroup"
)

// listPage runs the page query and the count query under the same filter
// concurrently and assembles the result.
func listPage[T any](
	ctx context.Context,
	q query.ListQuery,
	list func(ctx context.Context, p query.Pagination) ([]T, error),
	count func(ctx context.Context) (int, error),
) (*model.Page[T], error) {
	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = list(gctx, q.Pagination())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &model.Page[T]{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}
