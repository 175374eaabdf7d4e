// Package users implements user and affiliation persistence over PostgreSQL.
package users

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

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, full_name, role, position, created_at FROM users WHERE id = $1`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Position, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, username, full_name, role, position, created_at FROM users ORDER BY full_name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Position, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts user and fills in its id and creation time. A taken
// username yields common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, full_name, role, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.FullName, string(user.Role), user.Position).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: username already exists", common.ErrorConflict)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET username = $1, full_name = $2, role = $3, position = $4 WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, user.Username, user.FullName, string(user.Role), user.Position, user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: username already exists", common.ErrorConflict)
		}
		return fmt.Errorf("failed to update user: %w", err)
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

// Delete removes a user. Users still referenced by files, transfers or
// requests yield common.ErrorConflict.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user still owns files or transfers", common.ErrorConflict)
		}
		return fmt.Errorf("failed to delete user: %w", err)
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

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountPerDepartment returns distinct affiliated users for every top-level department.
func (r *PostgresRepository) CountPerDepartment(ctx context.Context) ([]models.DepartmentCount, error) {
	query := `
		SELECT d.id, d.name, COUNT(DISTINCT a.user_id)
		FROM departments d
		LEFT JOIN user_department_affiliations a ON a.department_id = d.id
		WHERE d.parent_id IS NULL
		GROUP BY d.id, d.name
		ORDER BY d.name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count users per department: %w", err)
	}
	defer rows.Close()

	var result []models.DepartmentCount
	for rows.Next() {
		var item models.DepartmentCount
		if err := rows.Scan(&item.DepartmentID, &item.Name, &item.Users); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const selectAffiliations = `
	SELECT a.user_id, a.department_id, d.name, a.sub_department_id, COALESCE(s.name, '')
	FROM user_department_affiliations a
	JOIN departments d ON d.id = a.department_id
	LEFT JOIN departments s ON s.id = a.sub_department_id`

func (r *PostgresRepository) queryAffiliations(ctx context.Context, query string, args ...any) (map[int64][]models.Affiliation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select affiliations: %w", err)
	}
	defer rows.Close()

	result := map[int64][]models.Affiliation{}
	for rows.Next() {
		var userID int64
		var sub sql.NullInt64
		var a models.Affiliation
		if err := rows.Scan(&userID, &a.DepartmentID, &a.DepartmentName, &sub, &a.SubDepartmentName); err != nil {
			return nil, err
		}
		a.SubDepartmentID = dbx.NullableID(sub)
		result[userID] = append(result[userID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Affiliations returns the departments userID belongs to.
func (r *PostgresRepository) Affiliations(ctx context.Context, userID int64) ([]models.Affiliation, error) {
	m, err := r.queryAffiliations(ctx, selectAffiliations+` WHERE a.user_id = $1 ORDER BY a.department_id, a.id`, userID)
	if err != nil {
		return nil, err
	}
	return m[userID], nil
}

// AllAffiliations returns affiliations of every user keyed by user id.
func (r *PostgresRepository) AllAffiliations(ctx context.Context) (map[int64][]models.Affiliation, error) {
	return r.queryAffiliations(ctx, selectAffiliations+` ORDER BY a.user_id, a.department_id, a.id`)
}

// ReplaceAffiliations swaps the affiliation set of userID. Callers run it
// inside a transaction.
func (r *PostgresRepository) ReplaceAffiliations(ctx context.Context, userID int64, affiliations []models.Affiliation) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_department_affiliations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear affiliations: %w", err)
	}

	query := `INSERT INTO user_department_affiliations (user_id, department_id, sub_department_id) VALUES ($1, $2, $3)`
	for _, a := range affiliations {
		if _, err := r.db.ExecContext(ctx, query, userID, a.DepartmentID, a.SubDepartmentID); err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: department %d does not exist", common.ErrorNotFound, a.DepartmentID)
			}
			return fmt.Errorf("failed to insert affiliation: %w", err)
		}
	}
	return nil
}

// MemberIDs returns the distinct users affiliated with departmentID.
func (r *PostgresRepository) MemberIDs(ctx context.Context, departmentID int64) ([]int64, error) {
	query := `SELECT DISTINCT user_id FROM user_department_affiliations WHERE department_id = $1 ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select members: %w", err)
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
