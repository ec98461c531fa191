// Package activities provides storage for per-user activity records with
// upsert-by-external-id semantics.
package activities

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stravastats/internal/dbx"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// PostgresRepository implements activity storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes each activity keyed by its external id, replacing the full
// record on conflict. A record fetched twice (overlapping pages, repeated
// syncs) collapses to one row reflecting the latest fetch.
func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, acts []models.Activity) (int, error) {
	query := `
		INSERT INTO activities (id, user_id, name, type, start_date, distance, moving_time, elapsed_time, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			start_date = EXCLUDED.start_date,
			distance = EXCLUDED.distance,
			moving_time = EXCLUDED.moving_time,
			elapsed_time = EXCLUDED.elapsed_time,
			payload = EXCLUDED.payload;
	`
	count := 0
	for _, a := range acts {
		if _, err := r.db.ExecContext(ctx, query,
			a.ExternalID, userID, a.Name, a.Type, a.StartDate,
			a.DistanceMeters, a.MovingTimeSeconds, a.ElapsedTimeSeconds, []byte(a.Payload)); err != nil {
			return count, fmt.Errorf("db error: %w", err)
		}
		count++
	}
	return count, nil
}

// ListForUser returns all stored activities stamped with userID.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.Activity, error) {
	query := `
		SELECT id, user_id, name, type, start_date, distance, moving_time, elapsed_time, payload
		FROM activities
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select activities: %w", err)
	}
	defer rows.Close()

	var result []models.Activity
	for rows.Next() {
		var item models.Activity
		var payload []byte
		if err := rows.Scan(
			&item.ExternalID, &item.UserID, &item.Name, &item.Type, &item.StartDate,
			&item.DistanceMeters, &item.MovingTimeSeconds, &item.ElapsedTimeSeconds, &payload,
		); err != nil {
			return nil, err
		}
		item.Payload = payload
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
