// Package transfers implements file transfer persistence over PostgreSQL.
package transfers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

const selectTransfers = `
	SELECT t.id, t.file_id, f.file_name, t.sender_id, s.full_name, t.recipient_id, t.department_id,
		t.status, t.time_sent, t.time_received, t.time_accepted, t.time_denied
	FROM file_transfers t
	JOIN files f ON f.id = t.file_id
	JOIN users s ON s.id = t.sender_id`

// a department-addressed transfer is incoming for every member of that department
const incomingCondition = `
	(t.recipient_id = $1 OR t.department_id IN (
		SELECT department_id FROM user_department_affiliations WHERE user_id = $1))`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransfer(s scanner) (*models.Transfer, error) {
	var t models.Transfer
	var recipient, department sql.NullInt64
	var received, accepted, denied sql.NullTime

	err := s.Scan(&t.ID, &t.FileID, &t.FileName, &t.SenderID, &t.SenderName, &recipient, &department,
		&t.Status, &t.SentAt, &received, &accepted, &denied)
	if err != nil {
		return nil, err
	}

	t.RecipientID = dbx.NullableID(recipient)
	t.DepartmentID = dbx.NullableID(department)
	t.ReceivedAt = dbx.NullableTime(received)
	t.AcceptedAt = dbx.NullableTime(accepted)
	t.DeniedAt = dbx.NullableTime(denied)
	return &t, nil
}

func (r *PostgresRepository) queryTransfers(ctx context.Context, query string, args ...any) ([]models.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transfers: %w", err)
	}
	defer rows.Close()

	var result []models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a pending transfer and fills in its id, status and send time.
func (r *PostgresRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	query := `
		INSERT INTO file_transfers (file_id, sender_id, recipient_id, department_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, time_sent`

	err := r.db.QueryRowContext(ctx, query, transfer.FileID, transfer.SenderID, transfer.RecipientID, transfer.DepartmentID).
		Scan(&transfer.ID, &transfer.Status, &transfer.SentAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: transfer target does not exist", common.ErrorNotFound)
		}
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Transfer, error) {
	t, err := scanTransfer(r.db.QueryRowContext(ctx, selectTransfers+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select transfer: %w", err)
	}
	return t, nil
}

// Resolve moves a pending transfer to status. It returns false when the
// transfer does not exist or was already processed.
func (r *PostgresRepository) Resolve(ctx context.Context, id int64, status models.TransferStatus) (bool, error) {
	var query string
	switch status {
	case models.TransferAccepted:
		query = `
			UPDATE file_transfers SET status = 'accepted', time_received = now(), time_accepted = now()
			WHERE id = $1 AND status = 'pending'`
	case models.TransferDenied:
		query = `
			UPDATE file_transfers SET status = 'denied', time_denied = now()
			WHERE id = $1 AND status = 'pending'`
	default:
		return false, fmt.Errorf("%w: unknown transfer status %q", common.ErrorValidation, status)
	}

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to update transfer: %w", err)
	}
	return dbx.SingleRowAffected(res)
}

// PendingIncoming lists pending transfers addressed to userID or to one of
// the departments userID belongs to, newest first.
func (r *PostgresRepository) PendingIncoming(ctx context.Context, userID int64) ([]models.Transfer, error) {
	query := selectTransfers + ` WHERE t.status = 'pending' AND` + incomingCondition + ` ORDER BY t.time_sent DESC, t.id DESC`
	return r.queryTransfers(ctx, query, userID)
}

func (r *PostgresRepository) PendingOutgoing(ctx context.Context, userID int64) ([]models.Transfer, error) {
	query := selectTransfers + ` WHERE t.status = 'pending' AND t.sender_id = $1 ORDER BY t.time_sent DESC, t.id DESC`
	return r.queryTransfers(ctx, query, userID)
}

func (r *PostgresRepository) CountPendingIncoming(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM file_transfers t WHERE t.status = 'pending' AND`+incomingCondition, userID)
}

func (r *PostgresRepository) CountPendingOutgoing(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM file_transfers t WHERE t.status = 'pending' AND t.sender_id = $1`, userID)
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return n, nil
}

// ReportRows lists every transfer with sender and recipient names for the
// admin activity report.
func (r *PostgresRepository) ReportRows(ctx context.Context) ([]models.ActivityReportRow, error) {
	query := `
		SELECT f.file_name, s.full_name, COALESCE(ru.full_name, d.name, ''), t.status, t.time_sent
		FROM file_transfers t
		JOIN files f ON f.id = t.file_id
		JOIN users s ON s.id = t.sender_id
		LEFT JOIN users ru ON ru.id = t.recipient_id
		LEFT JOIN departments d ON d.id = t.department_id
		ORDER BY t.time_sent DESC, t.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select transfer report: %w", err)
	}
	defer rows.Close()

	var result []models.ActivityReportRow
	for rows.Next() {
		row := models.ActivityReportRow{Kind: models.ReportKindTransfer}
		if err := rows.Scan(&row.FileName, &row.FromName, &row.ToName, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
