// Package doctypes implements read access to document types and their
// field schemas.
package doctypes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.DocumentType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM document_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select document types: %w", err)
	}
	defer rows.Close()

	var result []models.DocumentType
	for rows.Next() {
		var dt models.DocumentType
		if err := rows.Scan(&dt.ID, &dt.Name); err != nil {
			return nil, err
		}
		result = append(result, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByName matches name case-insensitively.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.DocumentType, error) {
	var dt models.DocumentType
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM document_types WHERE lower(name) = lower($1)`, name).
		Scan(&dt.ID, &dt.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select document type: %w", err)
	}
	return &dt, nil
}

// FieldsByTypeName returns the field schema of the named type in display
// order. An unknown type yields an empty result.
func (r *PostgresRepository) FieldsByTypeName(ctx context.Context, name string) ([]models.FieldDef, error) {
	query := `
		SELECT f.field_name, f.field_label, f.field_type, f.is_required
		FROM document_type_fields f
		JOIN document_types dt ON dt.id = f.document_type_id
		WHERE lower(dt.name) = lower($1)
		ORDER BY f.position, f.id`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to select document type fields: %w", err)
	}
	defer rows.Close()

	result := []models.FieldDef{}
	for rows.Next() {
		var fd models.FieldDef
		if err := rows.Scan(&fd.Name, &fd.Label, &fd.Type, &fd.Required); err != nil {
			return nil, err
		}
		result = append(result, fd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
