// Package accessrequests implements access request persistence over PostgreSQL.
package accessrequests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

const selectRequests = `
	SELECT ar.id, ar.file_id, f.file_name, ar.requester_id, u.full_name, ar.owner_id,
		ar.status, ar.time_requested, ar.time_approved, ar.time_rejected
	FROM access_requests ar
	JOIN files f ON f.id = ar.file_id
	JOIN users u ON u.id = ar.requester_id`

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

func scanRequest(s scanner) (*models.AccessRequest, error) {
	var ar models.AccessRequest
	var approved, rejected sql.NullTime

	err := s.Scan(&ar.ID, &ar.FileID, &ar.FileName, &ar.RequesterID, &ar.RequesterName, &ar.OwnerID,
		&ar.Status, &ar.RequestedAt, &approved, &rejected)
	if err != nil {
		return nil, err
	}
	ar.ApprovedAt = dbx.NullableTime(approved)
	ar.RejectedAt = dbx.NullableTime(rejected)
	return &ar, nil
}

func (r *PostgresRepository) queryRequests(ctx context.Context, query string, args ...any) ([]models.AccessRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select access requests: %w", err)
	}
	defer rows.Close()

	var result []models.AccessRequest
	for rows.Next() {
		ar, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a pending request. A second pending request for the same
// file and requester is a conflict.
func (r *PostgresRepository) Create(ctx context.Context, request *models.AccessRequest) error {
	query := `
		INSERT INTO access_requests (file_id, requester_id, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, status, time_requested`

	err := r.db.QueryRowContext(ctx, query, request.FileID, request.RequesterID, request.OwnerID).
		Scan(&request.ID, &request.Status, &request.RequestedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: access already requested", common.ErrorConflict)
		}
		return fmt.Errorf("failed to insert access request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.AccessRequest, error) {
	ar, err := scanRequest(r.db.QueryRowContext(ctx, selectRequests+` WHERE ar.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select access request: %w", err)
	}
	return ar, nil
}

func (r *PostgresRepository) HasPending(ctx context.Context, fileID, requesterID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM access_requests WHERE file_id = $1 AND requester_id = $2 AND status = 'pending')`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, fileID, requesterID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return ok, nil
}

// Resolve moves a pending request to status. It returns false when the
// request does not exist or was already processed.
func (r *PostgresRepository) Resolve(ctx context.Context, id int64, status models.RequestStatus) (bool, error) {
	var query string
	switch status {
	case models.RequestApproved:
		query = `UPDATE access_requests SET status = 'approved', time_approved = now() WHERE id = $1 AND status = 'pending'`
	case models.RequestRejected:
		query = `UPDATE access_requests SET status = 'rejected', time_rejected = now() WHERE id = $1 AND status = 'pending'`
	default:
		return false, fmt.Errorf("%w: unknown request status %q", common.ErrorValidation, status)
	}

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to update access request: %w", err)
	}
	return dbx.SingleRowAffected(res)
}

func (r *PostgresRepository) PendingForOwner(ctx context.Context, ownerID int64) ([]models.AccessRequest, error) {
	query := selectRequests + ` WHERE ar.status = 'pending' AND ar.owner_id = $1 ORDER BY ar.time_requested DESC, ar.id DESC`
	return r.queryRequests(ctx, query, ownerID)
}

func (r *PostgresRepository) PendingForRequester(ctx context.Context, requesterID int64) ([]models.AccessRequest, error) {
	query := selectRequests + ` WHERE ar.status = 'pending' AND ar.requester_id = $1 ORDER BY ar.time_requested DESC, ar.id DESC`
	return r.queryRequests(ctx, query, requesterID)
}

func (r *PostgresRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM access_requests WHERE status = 'pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count access requests: %w", err)
	}
	return n, nil
}

// ReportRows lists every request with requester and owner names for the
// admin activity report.
func (r *PostgresRepository) ReportRows(ctx context.Context) ([]models.ActivityReportRow, error) {
	query := `
		SELECT f.file_name, rq.full_name, ow.full_name, ar.status, ar.time_requested
		FROM access_requests ar
		JOIN files f ON f.id = ar.file_id
		JOIN users rq ON rq.id = ar.requester_id
		JOIN users ow ON ow.id = ar.owner_id
		ORDER BY ar.time_requested DESC, ar.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select access request report: %w", err)
	}
	defer rows.Close()

	var result []models.ActivityReportRow
	for rows.Next() {
		row := models.ActivityReportRow{Kind: models.ReportKindAccessRequest}
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
