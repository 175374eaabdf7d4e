// Package notifications implements user notifications over PostgreSQL.
package notifications

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

// Create inserts a pending notification and fills in its id and timestamp.
func (r *PostgresRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, file_id, type, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, timestamp`

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.FileID, string(n.Type), n.Message).
		Scan(&n.ID, &n.Status, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, file_id, type, status, message, timestamp
		FROM notifications
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select notifications: %w", err)
	}
	defer rows.Close()

	result := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var fileID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &fileID, &n.Type, &n.Status, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.FileID = dbx.NullableID(fileID)
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkProcessed closes every pending notification of typ about fileID
// addressed to userID. Having none to close is not an error.
func (r *PostgresRepository) MarkProcessed(ctx context.Context, userID, fileID int64, typ models.NotificationType) error {
	query := `
		UPDATE notifications SET status = 'processed'
		WHERE user_id = $1 AND file_id = $2 AND type = $3 AND status = 'pending'`

	if _, err := r.db.ExecContext(ctx, query, userID, fileID, string(typ)); err != nil {
		return fmt.Errorf("failed to update notifications: %w", err)
	}
	return nil
}
