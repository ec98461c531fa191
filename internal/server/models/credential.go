// Package models defines server-side data models persisted in the database.
package models

import "time"

// Credential is the delegated-access token triple Strava issued for a user.
// There is at most one live credential per user; a refresh replaces all
// three fields as a unit.
type Credential struct {
	// UserID is the local user identity. It equals the Strava athlete id.
	UserID int64
	// AccessToken authorizes API calls until ExpiresAt.
	AccessToken string
	// RefreshToken is exchanged for a new triple once AccessToken expires.
	RefreshToken string
	// ExpiresAt is the absolute expiry instant of AccessToken.
	ExpiresAt time.Time
}
