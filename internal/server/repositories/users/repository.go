package users

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountPerDepartment(ctx context.Context) ([]models.DepartmentCount, error)

	Affiliations(ctx context.Context, userID int64) ([]models.Affiliation, error)
	AllAffiliations(ctx context.Context) (map[int64][]models.Affiliation, error)
	ReplaceAffiliations(ctx context.Context, userID int64, affiliations []models.Affiliation) error
	MemberIDs(ctx context.Context, departmentID int64) ([]int64, error)
}
