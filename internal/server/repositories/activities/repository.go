package activities

import (
	"context"

	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// Repository stores fetched activities keyed by their provider-assigned id.
type Repository interface {
	// Upsert stamps each activity with userID and writes it keyed by
	// external id, replacing any existing record. Records are written one
	// by one; a failure does not roll back earlier records of the same
	// call. The returned count is the number of records submitted up to
	// the failure point, not the number actually changed.
	Upsert(ctx context.Context, userID int64, acts []models.Activity) (int, error)
	// ListForUser returns all activities stamped with userID, order
	// unspecified.
	ListForUser(ctx context.Context, userID int64) ([]models.Activity, error)
}
