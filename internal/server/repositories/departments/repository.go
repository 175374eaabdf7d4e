package departments

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	ListTopLevel(ctx context.Context) ([]models.Department, error)
	ListSubDepartments(ctx context.Context, parentID *int64) ([]models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id int64) error
	NameTaken(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error)
	Usage(ctx context.Context, id int64) (models.DepartmentUsage, error)
}
