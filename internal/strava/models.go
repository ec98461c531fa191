package strava

import "time"

// Tokens is the provider's refresh-exchange response. ExpiresAt is a Unix
// timestamp (seconds).
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// apiActivity is the subset of a provider activity record we extract into
// columns. Everything else rides along in the raw payload.
type apiActivity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Distance    float64   `json:"distance"`
	MovingTime  int64     `json:"moving_time"`
	ElapsedTime int64     `json:"elapsed_time"`
	StartDate   time.Time `json:"start_date"`
}
