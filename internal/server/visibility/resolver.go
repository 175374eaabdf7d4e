// Package visibility decides which files a user may see in a given scope and
// through which channel each one became visible.
package visibility

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

// FileSource answers the candidate queries. Results may include soft-deleted
// files and the same file more than once.
type FileSource interface {
	OwnedBy(ctx context.Context, userID int64) ([]models.AnnotatedFile, error)
	TransferredToUser(ctx context.Context, userID int64) ([]models.File, error)
	ApprovedForRequester(ctx context.Context, userID int64) ([]models.File, error)
	UploadedByMembersOf(ctx context.Context, departmentID int64) ([]models.File, error)
	TransferredToDepartment(ctx context.Context, departmentID int64) ([]models.File, error)
	ApprovedForRequesterInDepartment(ctx context.Context, userID, departmentID int64) ([]models.File, error)
}

type DepartmentSource interface {
	GetByID(ctx context.Context, id int64) (*models.Department, error)
}

type Resolver struct {
	files       FileSource
	departments DepartmentSource
}

func NewResolver(files FileSource, departments DepartmentSource) *Resolver {
	return &Resolver{files: files, departments: departments}
}

// Resolve returns the files visible to identity in scope, filtered and
// sorted. Nothing is returned on error.
func (r *Resolver) Resolve(ctx context.Context, identity *models.Identity, scope Scope, filters Filters) ([]models.AnnotatedFile, error) {
	if identity == nil || identity.UserID <= 0 {
		return nil, common.ErrorAccessDenied
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	if scope.Kind == ScopeDepartment {
		if err := r.checkDepartment(ctx, identity, scope.DepartmentID); err != nil {
			return nil, err
		}
	}
	if filters.SubDepartment.Mode == SubDepartmentSpecific {
		if err := r.checkSubDepartment(ctx, scope, filters.SubDepartment.ID); err != nil {
			return nil, err
		}
	}

	var acc accumulator
	switch scope.Kind {
	case ScopePersonal:
		if err := r.gatherPersonal(ctx, identity.UserID, &acc); err != nil {
			return nil, err
		}
	case ScopeDepartment:
		if err := r.gatherDepartment(ctx, identity.UserID, scope.DepartmentID, &acc); err != nil {
			return nil, err
		}
		if err := r.upgradePersonal(ctx, identity.UserID, &acc); err != nil {
			return nil, err
		}
	case ScopeAllAccessible:
		if err := r.gatherPersonal(ctx, identity.UserID, &acc); err != nil {
			return nil, err
		}
		for _, departmentID := range identity.DepartmentIDs() {
			if err := r.gatherDepartment(ctx, identity.UserID, departmentID, &acc); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", common.ErrorValidation, scope.Kind)
	}

	scoped := scope.Kind != ScopePersonal
	visible := make([]models.AnnotatedFile, 0, len(acc.entries))
	for _, e := range acc.entries {
		if e.File.IsDeleted {
			continue
		}
		if scoped && e.File.SubDepartmentID != nil && !identity.InSubDepartment(*e.File.SubDepartmentID) {
			continue
		}
		visible = append(visible, e)
	}

	result := Apply(visible, identity.UserID, filters)
	Sort(result)
	return result, nil
}

func (r *Resolver) checkDepartment(ctx context.Context, identity *models.Identity, departmentID int64) error {
	department, err := r.departments.GetByID(ctx, departmentID)
	if err != nil {
		return err
	}
	if !department.Type.TopLevel() {
		return fmt.Errorf("%w: department %d is a sub-department", common.ErrorValidation, departmentID)
	}
	if !identity.AffiliatedWith(departmentID) {
		return common.ErrorAccessDenied
	}
	return nil
}

// checkSubDepartment requires the filtered sub-department to exist and, in
// department scope, to belong to that department.
func (r *Resolver) checkSubDepartment(ctx context.Context, scope Scope, subDepartmentID int64) error {
	sub, err := r.departments.GetByID(ctx, subDepartmentID)
	if err != nil {
		return err
	}
	if sub.Type.TopLevel() || sub.ParentID == nil {
		return fmt.Errorf("%w: sub-department %d", common.ErrorNotFound, subDepartmentID)
	}
	if scope.Kind == ScopeDepartment && *sub.ParentID != scope.DepartmentID {
		return fmt.Errorf("%w: sub-department %d in department %d", common.ErrorNotFound, subDepartmentID, scope.DepartmentID)
	}
	return nil
}

// upgradePersonal sharpens the provenance of files the department already
// shows with the caller's own channels. It never adds files.
func (r *Resolver) upgradePersonal(ctx context.Context, userID int64, acc *accumulator) error {
	owned, err := r.files.OwnedBy(ctx, userID)
	if err != nil {
		return err
	}
	for _, o := range owned {
		acc.upgrade(o.File.ID, o.Provenance)
	}
	received, err := r.files.TransferredToUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, f := range received {
		acc.upgrade(f.ID, models.ProvenanceReceivedTransfer)
	}
	approved, err := r.files.ApprovedForRequester(ctx, userID)
	if err != nil {
		return err
	}
	for _, f := range approved {
		acc.upgrade(f.ID, models.ProvenanceReceivedRequest)
	}
	return nil
}

func (r *Resolver) gatherPersonal(ctx context.Context, userID int64, acc *accumulator) error {
	owned, err := r.files.OwnedBy(ctx, userID)
	if err != nil {
		return err
	}
	for _, o := range owned {
		acc.add(o.File, o.Provenance, nil)
	}

	transferred, err := r.files.TransferredToUser(ctx, userID)
	if err != nil {
		return err
	}
	acc.addAll(transferred, models.ProvenanceReceivedTransfer, nil)

	approved, err := r.files.ApprovedForRequester(ctx, userID)
	if err != nil {
		return err
	}
	acc.addAll(approved, models.ProvenanceReceivedRequest, nil)
	return nil
}

func (r *Resolver) gatherDepartment(ctx context.Context, userID, departmentID int64, acc *accumulator) error {
	departmentContext := &departmentID

	uploaded, err := r.files.UploadedByMembersOf(ctx, departmentID)
	if err != nil {
		return err
	}
	for _, f := range uploaded {
		provenance := models.ProvenanceDepartmentWide
		if f.SubDepartmentID != nil {
			provenance = models.ProvenanceSubDepartmentScoped
		}
		acc.add(f, provenance, departmentContext)
	}

	transferred, err := r.files.TransferredToDepartment(ctx, departmentID)
	if err != nil {
		return err
	}
	acc.addAll(transferred, models.ProvenanceReceivedTransfer, departmentContext)

	approved, err := r.files.ApprovedForRequesterInDepartment(ctx, userID, departmentID)
	if err != nil {
		return err
	}
	acc.addAll(approved, models.ProvenanceReceivedRequest, departmentContext)
	return nil
}

// accumulator deduplicates candidates by file id, keeping the best ranked
// provenance and, on equal rank, the first one seen.
type accumulator struct {
	entries []models.AnnotatedFile
	index   map[int64]int
}

func (a *accumulator) add(f models.File, provenance models.Provenance, departmentContext *int64) {
	if a.index == nil {
		a.index = make(map[int64]int)
	}
	entry := models.AnnotatedFile{File: f, Provenance: provenance, DepartmentContext: departmentContext}

	i, ok := a.index[f.ID]
	if !ok {
		a.index[f.ID] = len(a.entries)
		a.entries = append(a.entries, entry)
		return
	}
	if provenance.Rank() < a.entries[i].Provenance.Rank() {
		a.entries[i] = entry
	}
}

func (a *accumulator) addAll(files []models.File, provenance models.Provenance, departmentContext *int64) {
	for _, f := range files {
		a.add(f, provenance, departmentContext)
	}
}

// upgrade improves the provenance of an already collected file without
// adding new ones.
func (a *accumulator) upgrade(fileID int64, provenance models.Provenance) {
	i, ok := a.index[fileID]
	if !ok {
		return
	}
	if provenance.Rank() < a.entries[i].Provenance.Rank() {
		a.entries[i].Provenance = provenance
	}
}
