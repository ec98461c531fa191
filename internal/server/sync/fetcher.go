// Package sync drives the token → fetch → store pipeline that pulls the
// athlete's activities from the provider into local storage.
package sync

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stravastats/internal/common"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// DefaultPageSize matches the provider's page size used by the dashboard.
const DefaultPageSize = 50

// TokenSource yields a currently valid access token for a user.
type TokenSource interface {
	GetValidAccessToken(ctx context.Context, userID int64) (string, error)
}

// Lister performs the provider's paginated activity-list call.
type Lister interface {
	ListActivities(ctx context.Context, accessToken string, page, perPage int) ([]models.Activity, error)
}

// Fetcher retrieves single pages of remote activities for a user.
type Fetcher struct {
	tokens   TokenSource
	provider Lister
	pageSize int
}

func NewFetcher(tokens TokenSource, provider Lister, pageSize int) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{tokens: tokens, provider: provider, pageSize: pageSize}
}

// FetchPage returns one page of activities. An empty slice with a nil error
// means the provider is exhausted; a non-nil error means the page could not
// be fetched and says nothing about remaining data. No internal retry.
func (f *Fetcher) FetchPage(ctx context.Context, userID int64, page int) ([]models.Activity, error) {
	token, err := f.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtaining access token: %w", err)
	}

	acts, err := f.provider.ListActivities(ctx, token, page, f.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}
	return acts, nil
}
