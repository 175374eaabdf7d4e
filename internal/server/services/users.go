package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/departments"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
)

// UserInput carries the editable fields of a user account.
type UserInput struct {
	Username     string
	FullName     string
	Role         models.Role
	Position     string
	Affiliations []models.Affiliation
}

// UserService resolves request identities and backs the admin user console.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// LoadIdentity turns verified token claims into the caller identity. The
// stored role wins over the claimed one; unknown users are unauthorized.
func (s *UserService) LoadIdentity(ctx context.Context, userID int64) (*models.Identity, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	affiliations, err := repo.Affiliations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading affiliations: %w", err)
	}

	return &models.Identity{UserID: user.ID, Role: user.Role, Affiliations: affiliations}, nil
}

// List returns every user with their affiliations.
func (s *UserService) List(ctx context.Context, identity *models.Identity) ([]*models.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	repo := s.repomanager.Users(s.db)

	users, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	affiliations, err := repo.AllAffiliations(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Affiliations = affiliations[u.ID]
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, identity *models.Identity, in UserInput) (*models.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	user, err := userFromInput(in)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := validateAffiliations(ctx, s.repomanager.Departments(tx), in.Affiliations); err != nil {
			return err
		}
		repo := s.repomanager.Users(tx)
		if err := repo.Create(ctx, user); err != nil {
			return err
		}
		if err := repo.ReplaceAffiliations(ctx, user.ID, in.Affiliations); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageUser,
			fmt.Sprintf("Created user %s", user.Username))
	})
	if err != nil {
		return nil, err
	}

	user.Affiliations = in.Affiliations
	return user, nil
}

func (s *UserService) Update(ctx context.Context, identity *models.Identity, id int64, in UserInput) (*models.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	user, err := userFromInput(in)
	if err != nil {
		return nil, err
	}
	user.ID = id

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := validateAffiliations(ctx, s.repomanager.Departments(tx), in.Affiliations); err != nil {
			return err
		}
		repo := s.repomanager.Users(tx)
		if err := repo.Update(ctx, user); err != nil {
			return err
		}
		if err := repo.ReplaceAffiliations(ctx, id, in.Affiliations); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageUser,
			fmt.Sprintf("Updated user %s", user.Username))
	})
	if err != nil {
		return nil, err
	}

	user.Affiliations = in.Affiliations
	return user, nil
}

// Delete removes a user account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, identity *models.Identity, id int64) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if id == identity.UserID {
		return fmt.Errorf("%w: you cannot delete your own account", common.ErrorValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, nil, models.ActionManageUser,
			fmt.Sprintf("Deleted user %s", user.Username))
	})
}

func userFromInput(in UserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	fullName, err := cleanName("full name", in.FullName)
	if err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", common.ErrorValidation, in.Role)
	}
	return &models.User{
		Username: username,
		FullName: fullName,
		Role:     in.Role,
		Position: strings.TrimSpace(in.Position),
	}, nil
}

// validateAffiliations requires every department to be a college or office
// and every pinned sub-department to belong to it.
func validateAffiliations(ctx context.Context, repo departments.Repository, affiliations []models.Affiliation) error {
	for _, a := range affiliations {
		department, err := repo.GetByID(ctx, a.DepartmentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: department %d", common.ErrorNotFound, a.DepartmentID)
			}
			return err
		}
		if !department.Type.TopLevel() {
			return fmt.Errorf("%w: %s is not a college or office", common.ErrorValidation, department.Name)
		}
		if a.SubDepartmentID == nil {
			continue
		}
		sub, err := repo.GetByID(ctx, *a.SubDepartmentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: sub-department %d", common.ErrorNotFound, *a.SubDepartmentID)
			}
			return err
		}
		if sub.ParentID == nil || *sub.ParentID != department.ID {
			return fmt.Errorf("%w: %s is not a sub-department of %s", common.ErrorValidation, sub.Name, department.Name)
		}
	}
	return nil
}
