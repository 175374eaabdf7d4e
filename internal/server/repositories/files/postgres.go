// Package files implements file persistence over PostgreSQL.
package files

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

const selectFiles = `
	SELECT f.id, f.file_name, f.user_id, COALESCE(u.full_name, ''), f.document_type_id, COALESCE(dt.name, ''),
		f.department_id, f.sub_department_id, f.upload_date, f.file_path, f.hard_copy_available, f.file_size,
		f.metadata, f.is_deleted, COALESCE(f.copy_type, ''), f.copied_from`

const fromFiles = `
	FROM files f
	JOIN users u ON u.id = f.user_id
	LEFT JOIN document_types dt ON dt.id = f.document_type_id`

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

func scanFile(s scanner, extra ...any) (*models.File, error) {
	var f models.File
	var docTypeID, departmentID, subDepartmentID, copiedFrom sql.NullInt64
	var metadata []byte

	dest := []any{&f.ID, &f.Name, &f.UploaderID, &f.UploaderName, &docTypeID, &f.DocumentType,
		&departmentID, &subDepartmentID, &f.UploadedAt, &f.StoragePath, &f.HardCopyAvailable, &f.Size,
		&metadata, &f.IsDeleted, &f.CopyType, &copiedFrom}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	f.DocumentTypeID = dbx.NullableID(docTypeID)
	f.DepartmentID = dbx.NullableID(departmentID)
	f.SubDepartmentID = dbx.NullableID(subDepartmentID)
	f.CopiedFrom = dbx.NullableID(copiedFrom)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &f.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata of file %d: %w", f.ID, err)
		}
	}
	return &f, nil
}

func (r *PostgresRepository) queryFiles(ctx context.Context, query string, args ...any) ([]models.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the file with the given id, deleted or not.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := selectFiles + fromFiles + ` WHERE f.id = $1`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}

// Create inserts file and fills in its id and upload time.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (file_name, user_id, document_type_id, department_id, sub_department_id,
			file_path, hard_copy_available, file_size, metadata, copy_type, copied_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, upload_date`

	metadata := file.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	copyType := sql.NullString{String: file.CopyType, Valid: file.CopyType != ""}

	err = r.db.QueryRowContext(ctx, query,
		file.Name, file.UploaderID, file.DocumentTypeID, file.DepartmentID, file.SubDepartmentID,
		file.StoragePath, file.HardCopyAvailable, file.Size, string(encoded), copyType, file.CopiedFrom,
	).Scan(&file.ID, &file.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

// AddOwner records ownership of fileID by userID.
func (r *PostgresRepository) AddOwner(ctx context.Context, fileID, userID int64, ownership models.OwnershipType) error {
	query := `INSERT INTO file_owners (file_id, user_id, ownership_type) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, fileID, userID, string(ownership)); err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: user already owns the file", common.ErrorConflict)
		}
		return fmt.Errorf("failed to insert file owner: %w", err)
	}
	return nil
}

// IsOwner reports whether userID uploaded fileID or holds an ownership row on it.
func (r *PostgresRepository) IsOwner(ctx context.Context, fileID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM files WHERE id = $1 AND user_id = $2)
			OR EXISTS (SELECT 1 FROM file_owners WHERE file_id = $1 AND user_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, fileID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return ok, nil
}

// Rename changes the display name of a live file.
func (r *PostgresRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `UPDATE files SET file_name = $1 WHERE id = $2 AND is_deleted = FALSE`
	return r.updateOne(ctx, "rename file", query, name, id)
}

// SoftDelete flags a live file as deleted.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE files SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`
	return r.updateOne(ctx, "delete file", query, id)
}

func (r *PostgresRepository) updateOne(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	ok, err := dbx.SingleRowAffected(res)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

// CountActive counts files that are not soft-deleted.
func (r *PostgresRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE is_deleted = FALSE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return n, nil
}

// UploadsPerDay returns live upload counts per calendar day since the given time.
func (r *PostgresRepository) UploadsPerDay(ctx context.Context, since time.Time) ([]models.DailyCount, error) {
	query := `
		SELECT date_trunc('day', upload_date) AS day, COUNT(*)
		FROM files
		WHERE is_deleted = FALSE AND upload_date >= $1
		GROUP BY day
		ORDER BY day`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to select upload trend: %w", err)
	}
	defer rows.Close()

	var result []models.DailyCount
	for rows.Next() {
		var item models.DailyCount
		if err := rows.Scan(&item.Day, &item.Uploads); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// OwnedBy returns files uploaded or co-owned by userID tagged with the
// stronger of the two ownerships.
func (r *PostgresRepository) OwnedBy(ctx context.Context, userID int64) ([]models.AnnotatedFile, error) {
	query := selectFiles + `,
		CASE WHEN f.user_id = $1 OR fo.ownership_type = 'original' THEN 'uploaded' ELSE 'co-owned' END` + fromFiles + `
	LEFT JOIN file_owners fo ON fo.file_id = f.id AND fo.user_id = $1
	WHERE f.user_id = $1 OR fo.id IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select owned files: %w", err)
	}
	defer rows.Close()

	var result []models.AnnotatedFile
	for rows.Next() {
		var provenance string
		f, err := scanFile(rows, &provenance)
		if err != nil {
			return nil, err
		}
		result = append(result, models.AnnotatedFile{File: *f, Provenance: models.Provenance(provenance)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TransferredToUser returns files reaching userID through an accepted transfer.
func (r *PostgresRepository) TransferredToUser(ctx context.Context, userID int64) ([]models.File, error) {
	query := selectFiles + fromFiles + `
	WHERE EXISTS (
		SELECT 1 FROM file_transfers t
		WHERE t.file_id = f.id AND t.recipient_id = $1 AND t.status = 'accepted')`
	return r.queryFiles(ctx, query, userID)
}

// ApprovedForRequester returns files reaching userID through an approved access request.
func (r *PostgresRepository) ApprovedForRequester(ctx context.Context, userID int64) ([]models.File, error) {
	query := selectFiles + fromFiles + `
	WHERE EXISTS (
		SELECT 1 FROM access_requests ar
		WHERE ar.file_id = f.id AND ar.requester_id = $1 AND ar.status = 'approved')`
	return r.queryFiles(ctx, query, userID)
}

// UploadedByMembersOf returns files whose uploader is affiliated with departmentID.
func (r *PostgresRepository) UploadedByMembersOf(ctx context.Context, departmentID int64) ([]models.File, error) {
	query := selectFiles + fromFiles + `
	WHERE EXISTS (
		SELECT 1 FROM user_department_affiliations a
		WHERE a.user_id = f.user_id AND a.department_id = $1)`
	return r.queryFiles(ctx, query, departmentID)
}

// TransferredToDepartment returns files reaching departmentID through an accepted transfer.
func (r *PostgresRepository) TransferredToDepartment(ctx context.Context, departmentID int64) ([]models.File, error) {
	query := selectFiles + fromFiles + `
	WHERE EXISTS (
		SELECT 1 FROM file_transfers t
		WHERE t.file_id = f.id AND t.department_id = $1 AND t.status = 'accepted')`
	return r.queryFiles(ctx, query, departmentID)
}

// ApprovedForRequesterInDepartment narrows ApprovedForRequester to files
// filed under departmentID.
func (r *PostgresRepository) ApprovedForRequesterInDepartment(ctx context.Context, userID, departmentID int64) ([]models.File, error) {
	query := selectFiles + fromFiles + `
	WHERE f.department_id = $2 AND EXISTS (
		SELECT 1 FROM access_requests ar
		WHERE ar.file_id = f.id AND ar.requester_id = $1 AND ar.status = 'approved')`
	return r.queryFiles(ctx, query, userID, departmentID)
}
