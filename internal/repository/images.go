package repository

import (
	"context"
	"fmt"

	"StorefrontAPI/internal/model"

	"github.com/google/uuid"
)

// insertImages writes images for one owner, keeping the input order as
// sort_order. table and ownerColumn are constants chosen by the caller.
func insertImages(ctx context.Context, q querier, table, ownerColumn string, ownerID uuid.UUID, images []ImageInput) error {
	sql := fmt.Sprintf(`INSERT INTO %s (%s, url, alt, sort_order) VALUES ($1, $2, $3, $4)`, table, ownerColumn)
	for i, img := range images {
		if _, err := q.Exec(ctx, sql, ownerID, img.URL, img.Alt, i); err != nil {
			return mapError("insert image", err)
		}
	}
	return nil
}

// loadImages returns the images of every owner in ownerIDs, grouped by owner.
func loadImages(ctx context.Context, q querier, table, ownerColumn string, ownerIDs []string) (map[uuid.UUID][]model.Image, error) {
	sql := fmt.Sprintf(`
		SELECT %[2]s, id, url, alt, sort_order
		FROM %[1]s
		WHERE %[2]s = ANY($1::uuid[])
		ORDER BY sort_order, id`, table, ownerColumn)

	rows, err := q.Query(ctx, sql, ownerIDs)
	if err != nil {
		return nil, mapError("load images", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]model.Image)
	for rows.Next() {
		var (
			owner uuid.UUID
			img   model.Image
		)
		if err := rows.Scan(&owner, &img.ID, &img.URL, &img.Alt, &img.SortOrder); err != nil {
			return nil, mapError("scan image", err)
		}
		out[owner] = append(out[owner], img)
	}
	return out, mapError("load images", rows.Err())
}
