// Package repository provides the gorm-backed data access layer.
package repository

import (
	"context"
	"errors"

	"yatube/internal/database"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// readDB routes reads to the replica when one is configured for the
// primary the repository was built with. Contexts marked with
// database.WithPrimary always read the primary.
func readDB(ctx context.Context, primary *gorm.DB) *gorm.DB {
	if database.ReadsPrimary(ctx) || primary != database.DB {
		return primary
	}
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// mapFindError turns gorm's not-found into a NOT_FOUND AppError and wraps
// everything else as internal.
func mapFindError(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
