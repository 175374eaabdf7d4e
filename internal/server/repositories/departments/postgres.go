// Package departments implements department persistence over PostgreSQL.
package departments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query := `SELECT id, name, type, parent_id FROM departments WHERE id = $1`

	var d models.Department
	var parent sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &d.Type, &parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select department: %w", err)
	}
	d.ParentID = dbx.NullableID(parent)
	return &d, nil
}

func (r *PostgresRepository) queryDepartments(ctx context.Context, query string, args ...any) ([]models.Department, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select departments: %w", err)
	}
	defer rows.Close()

	var result []models.Department
	for rows.Next() {
		var d models.Department
		var parent sql.NullInt64
		if err := rows.Scan(&d.ID, &d.Name, &d.Type, &parent); err != nil {
			return nil, err
		}
		d.ParentID = dbx.NullableID(parent)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTopLevel returns colleges and offices ordered by name.
func (r *PostgresRepository) ListTopLevel(ctx context.Context) ([]models.Department, error) {
	return r.queryDepartments(ctx, `SELECT id, name, type, parent_id FROM departments WHERE parent_id IS NULL ORDER BY name, id`)
}

// ListSubDepartments returns sub-departments of parentID, or of every parent when parentID is nil.
func (r *PostgresRepository) ListSubDepartments(ctx context.Context, parentID *int64) ([]models.Department, error) {
	if parentID == nil {
		return r.queryDepartments(ctx, `SELECT id, name, type, parent_id FROM departments WHERE parent_id IS NOT NULL ORDER BY parent_id, name, id`)
	}
	return r.queryDepartments(ctx, `SELECT id, name, type, parent_id FROM departments WHERE parent_id = $1 ORDER BY name, id`, *parentID)
}

func (r *PostgresRepository) Create(ctx context.Context, department *models.Department) error {
	query := `INSERT INTO departments (name, type, parent_id) VALUES ($1, $2, $3) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, department.Name, string(department.Type), department.ParentID).Scan(&department.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: department name already exists", common.ErrorConflict)
		}
		return fmt.Errorf("failed to insert department: %w", err)
	}
	return nil
}

// Update changes name and type. The parent of a department never changes.
func (r *PostgresRepository) Update(ctx context.Context, department *models.Department) error {
	query := `UPDATE departments SET name = $1, type = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, department.Name, string(department.Type), department.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: department name already exists", common.ErrorConflict)
		}
		return fmt.Errorf("failed to update department: %w", err)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: department is still in use", common.ErrorConflict)
		}
		return fmt.Errorf("failed to delete department: %w", err)
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

// NameTaken reports whether another department under the same parent
// already uses name, compared case-insensitively.
func (r *PostgresRepository) NameTaken(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM departments
			WHERE lower(name) = lower($1)
				AND COALESCE(parent_id, 0) = COALESCE($2::bigint, 0)
				AND id <> $3)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, name, parentID, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check department name: %w", err)
	}
	return taken, nil
}

// Usage counts sub-departments, affiliated users and files referencing id.
func (r *PostgresRepository) Usage(ctx context.Context, id int64) (models.DepartmentUsage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM departments WHERE parent_id = $1),
			(SELECT COUNT(DISTINCT user_id) FROM user_department_affiliations WHERE department_id = $1 OR sub_department_id = $1),
			(SELECT COUNT(*) FROM files WHERE department_id = $1 OR sub_department_id = $1)`

	var u models.DepartmentUsage
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&u.SubDepartments, &u.Users, &u.Files); err != nil {
		return u, fmt.Errorf("failed to count department usage: %w", err)
	}
	return u, nil
}
