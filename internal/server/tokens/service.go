// Package tokens keeps delegated-access credentials usable: it hands out the
// stored access token while it is still fresh and refreshes it through the
// provider once the expiry comes near.
package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/stravastats/internal/common"
	"github.com/dmitrijs2005/stravastats/internal/logging"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/stravastats/internal/strava"
)

// ExpirySkew is the safety margin against request-in-flight races: a token
// expiring within this window is treated as already expired.
const ExpirySkew = 60 * time.Second

// Refresher performs the provider's refresh-token exchange.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*strava.Tokens, error)
}

// Service implements the token-freshness contract.
//
// The check-then-refresh sequence is not guarded against concurrent callers
// for the same user: a single active session per user is assumed.
type Service struct {
	creds    credentials.Repository
	provider Refresher
	logger   logging.Logger
	skew     time.Duration
	now      func() time.Time
}

func NewService(creds credentials.Repository, provider Refresher, logger logging.Logger) *Service {
	return &Service{
		creds:    creds,
		provider: provider,
		logger:   logger.With("module", "tokens"),
		skew:     ExpirySkew,
		now:      time.Now,
	}
}

// GetValidAccessToken returns an access token valid for at least the skew
// window. With no stored credential it returns common.ErrNotAuthenticated.
// When the stored token is near expiry it refreshes through the provider,
// persists the new triple as a unit, and returns the new token; if the
// refresh fails the stored credential stays untouched so a later call can
// try again, and common.ErrRefreshFailed is returned.
func (s *Service) GetValidAccessToken(ctx context.Context, userID int64) (string, error) {
	cred, err := s.creds.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotAuthenticated
		}
		return "", common.ErrInternal
	}

	if cred.ExpiresAt.After(s.now().Add(s.skew)) {
		return cred.AccessToken, nil
	}

	tokens, err := s.provider.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		s.logger.Error(ctx, "token refresh failed", "user_id", userID, "error", err)
		return "", common.ErrRefreshFailed
	}

	updated := &models.Credential{
		UserID:       userID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Unix(tokens.ExpiresAt, 0),
	}
	if err := s.creds.Save(ctx, updated); err != nil {
		s.logger.Error(ctx, "refreshed credential save failed", "user_id", userID, "error", err)
		return "", common.ErrInternal
	}

	return updated.AccessToken, nil
}
