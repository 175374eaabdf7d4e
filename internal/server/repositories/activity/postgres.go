// Package activity implements the per-user audit trail over PostgreSQL.
package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Log appends entry and fills in its id and timestamp.
func (r *PostgresRepository) Log(ctx context.Context, entry *models.Activity) error {
	query := `
		INSERT INTO activity_log (user_id, file_id, action, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`

	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.FileID, entry.Action, entry.Message).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListForUser returns the latest limit entries of userID, newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	query := `
		SELECT id, user_id, file_id, action, message, timestamp
		FROM activity_log
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select activity: %w", err)
	}
	defer rows.Close()

	result := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var fileID sql.NullInt64
		if err := rows.Scan(&a.ID, &a.UserID, &fileID, &a.Action, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.FileID = dbx.NullableID(fileID)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
