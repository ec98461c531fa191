package models

import (
	"encoding/json"
	"time"
)

// Activity is one exercise record fetched from Strava. The extracted fields
// are what querying and aggregation need; Payload carries the full provider
// JSON through unmodified.
type Activity struct {
	// ExternalID is the provider-assigned activity id, unique across all
	// users. It is the upsert key.
	ExternalID int64
	// UserID is the owning local user, stamped on store.
	UserID int64

	Name               string
	Type               string
	StartDate          time.Time
	DistanceMeters     float64
	MovingTimeSeconds  int64
	ElapsedTimeSeconds int64

	// Payload is the raw provider record as received.
	Payload json.RawMessage
}
