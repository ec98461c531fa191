// Package credentials provides storage for per-user delegated-access
// credentials (the access/refresh token pair plus expiry).
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stravastats/internal/common"
	"github.com/dmitrijs2005/stravastats/internal/dbx"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// PostgresRepository implements credential storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the credential stored for userID.
// If none exists, it returns common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Credential, error) {
	query := `
		SELECT user_id, access_token, refresh_token, expires_at
		FROM credentials
		WHERE user_id = $1
	`
	cred := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&cred.UserID, &cred.AccessToken, &cred.RefreshToken, &cred.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cred, nil
}

// Save upserts the credential keyed by user_id. The triple is written in a
// single statement so a refresh never leaves a partially updated row.
func (r *PostgresRepository) Save(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO credentials (user_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at;
	`
	if _, err := r.db.ExecContext(ctx, query,
		cred.UserID, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListUserIDs returns all user ids that have a stored credential.
func (r *PostgresRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT user_id FROM credentials ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select user ids: %w", err)
	}
	defer rows.Close()

	var result []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
