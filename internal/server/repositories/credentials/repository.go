package credentials

import (
	"context"

	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// Repository stores at most one delegated-access credential per user.
type Repository interface {
	// Get returns the stored credential for userID, or common.ErrNotFound.
	Get(ctx context.Context, userID int64) (*models.Credential, error)
	// Save replaces the whole triple for cred.UserID, inserting if absent.
	Save(ctx context.Context, cred *models.Credential) error
	// ListUserIDs returns the ids of all users with a stored credential.
	ListUserIDs(ctx context.Context) ([]int64, error)
}
