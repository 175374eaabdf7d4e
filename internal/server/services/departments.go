package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
)

type DepartmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDepartmentService(db *sql.DB, m repomanager.RepositoryManager) *DepartmentService {
	return &DepartmentService{db: db, repomanager: m}
}

// Mine returns the caller's affiliations with department names filled in.
func (s *DepartmentService) Mine(ctx context.Context, identity *models.Identity) ([]models.Affiliation, error) {
	return s.repomanager.Users(s.db).Affiliations(ctx, identity.UserID)
}

// SubDepartments lists the sub-departments of a department the caller
// belongs to. Admins may list any department.
func (s *DepartmentService) SubDepartments(ctx context.Context, identity *models.Identity, departmentID int64) ([]models.Department, error) {
	repo := s.repomanager.Departments(s.db)

	department, err := repo.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if !department.Type.TopLevel() {
		return nil, fmt.Errorf("%w: %s has no sub-departments", common.ErrorValidation, department.Name)
	}
	if !identity.IsAdmin() && !identity.AffiliatedWith(departmentID) {
		return nil, common.ErrorAccessDenied
	}

	subs, err := repo.ListSubDepartments(ctx, &departmentID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Department{}
	}
	return subs, nil
}

// ListAll returns colleges and offices with their sub-departments nested.
func (s *DepartmentService) ListAll(ctx context.Context, identity *models.Identity) ([]models.Department, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	repo := s.repomanager.Departments(s.db)

	top, err := repo.ListTopLevel(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := repo.ListSubDepartments(ctx, nil)
	if err != nil {
		return nil, err
	}

	byParent := make(map[int64][]models.Department)
	for _, sub := range subs {
		byParent[*sub.ParentID] = append(byParent[*sub.ParentID], sub)
	}
	result := make([]models.Department, 0, len(top))
	for _, d := range top {
		d.SubDepartments = byParent[d.ID]
		result = append(result, d)
	}
	return result, nil
}

// Create adds a college or office.
func (s *DepartmentService) Create(ctx context.Context, identity *models.Identity, name string, typ models.DepartmentType) (*models.Department, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	name, err := cleanName("department name", name)
	if err != nil {
		return nil, err
	}
	if !typ.TopLevel() {
		return nil, fmt.Errorf("%w: department type must be college or office", common.ErrorValidation)
	}

	department := &models.Department{Name: name, Type: typ}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Departments(tx)
		if err := ensureNameFree(ctx, repo.NameTaken, name, nil, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, department); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageDepartment,
			fmt.Sprintf("Created department %s", name))
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

// CreateSubDepartment adds a sub-department under a college or office.
func (s *DepartmentService) CreateSubDepartment(ctx context.Context, identity *models.Identity, parentID int64, name string) (*models.Department, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	name, err := cleanName("sub-department name", name)
	if err != nil {
		return nil, err
	}

	department := &models.Department{Name: name, Type: models.DepartmentSub, ParentID: &parentID}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Departments(tx)
		parent, err := repo.GetByID(ctx, parentID)
		if err != nil {
			return err
		}
		if !parent.Type.TopLevel() {
			return fmt.Errorf("%w: sub-departments cannot be nested", common.ErrorValidation)
		}
		if err := ensureNameFree(ctx, repo.NameTaken, name, &parentID, 0); err != nil {
			return err
		}
		if err := repo.Create(ctx, department); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageDepartment,
			fmt.Sprintf("Created sub-department %s under %s", name, parent.Name))
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

// Update renames a department. Top-level departments may also switch
// between college and office; sub-departments keep their type and parent.
func (s *DepartmentService) Update(ctx context.Context, identity *models.Identity, id int64, name string, typ models.DepartmentType) (*models.Department, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	name, err := cleanName("department name", name)
	if err != nil {
		return nil, err
	}

	var department *models.Department
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Departments(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case current.Type.TopLevel() && typ == "":
			typ = current.Type
		case current.Type.TopLevel() && !typ.TopLevel():
			return fmt.Errorf("%w: department type must be college or office", common.ErrorValidation)
		case !current.Type.TopLevel() && typ != "" && typ != models.DepartmentSub:
			return fmt.Errorf("%w: a sub-department cannot change its type", common.ErrorValidation)
		case !current.Type.TopLevel():
			typ = models.DepartmentSub
		}

		if err := ensureNameFree(ctx, repo.NameTaken, name, current.ParentID, id); err != nil {
			return err
		}
		department = &models.Department{ID: id, Name: name, Type: typ, ParentID: current.ParentID}
		if err := repo.Update(ctx, department); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageDepartment,
			fmt.Sprintf("Updated department %s", name))
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

// Delete removes a department nothing refers to any more.
func (s *DepartmentService) Delete(ctx context.Context, identity *models.Identity, id int64) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Departments(tx)
		department, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		usage, err := repo.Usage(ctx, id)
		if err != nil {
			return err
		}
		if usage.InUse() {
			return fmt.Errorf("%w: %s still has %d sub-departments, %d users and %d files",
				common.ErrorConflict, department.Name, usage.SubDepartments, usage.Users, usage.Files)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageDepartment,
			fmt.Sprintf("Deleted department %s", department.Name))
	})
}

func ensureNameFree(ctx context.Context, taken func(context.Context, string, *int64, int64) (bool, error), name string, parentID *int64, excludeID int64) error {
	exists, err := taken(ctx, name, parentID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s already exists", common.ErrorConflict, name)
	}
	return nil
}
