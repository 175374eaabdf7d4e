package doctypes

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.DocumentType, error)
	GetByName(ctx context.Context, name string) (*models.DocumentType, error)
	FieldsByTypeName(ctx context.Context, name string) ([]models.FieldDef, error)
}
