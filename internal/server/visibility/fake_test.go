package visibility

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type ownership struct {
	fileID int64
	userID int64
	kind   models.OwnershipType
}

// world is an in-memory store answering the candidate queries the same way
// the Postgres repositories do.
type world struct {
	files        map[int64]models.File
	owners       []ownership
	transfers    []models.Transfer
	requests     []models.AccessRequest
	affiliations map[int64][]models.Affiliation
	departments  map[int64]models.Department
	fail         error
	calls        int
}

func newWorld() *world {
	return &world{
		files:        map[int64]models.File{},
		affiliations: map[int64][]models.Affiliation{},
		departments:  map[int64]models.Department{},
	}
}

func (w *world) department(id int64, name string, typ models.DepartmentType, parent *int64) {
	w.departments[id] = models.Department{ID: id, Name: name, Type: typ, ParentID: parent}
}

func (w *world) affiliate(userID, departmentID int64, sub *int64) {
	w.affiliations[userID] = append(w.affiliations[userID], models.Affiliation{DepartmentID: departmentID, SubDepartmentID: sub})
}

func (w *world) identity(userID int64) *models.Identity {
	return &models.Identity{UserID: userID, Role: models.RoleClient, Affiliations: w.affiliations[userID]}
}

func (w *world) upload(f models.File) {
	w.files[f.ID] = f
	w.owners = append(w.owners, ownership{fileID: f.ID, userID: f.UploaderID, kind: models.OwnershipOriginal})
}

func (w *world) coOwn(fileID, userID int64) {
	w.owners = append(w.owners, ownership{fileID: fileID, userID: userID, kind: models.OwnershipCoOwner})
}

func (w *world) sendToUser(fileID, sender, recipient int64, status models.TransferStatus) {
	w.transfers = append(w.transfers, models.Transfer{FileID: fileID, SenderID: sender, RecipientID: &recipient, Status: status})
}

func (w *world) sendToDepartment(fileID, sender, departmentID int64, status models.TransferStatus) {
	w.transfers = append(w.transfers, models.Transfer{FileID: fileID, SenderID: sender, DepartmentID: &departmentID, Status: status})
}

func (w *world) request(fileID, requester int64, status models.RequestStatus) {
	w.requests = append(w.requests, models.AccessRequest{FileID: fileID, RequesterID: requester, OwnerID: w.files[fileID].UploaderID, Status: status})
}

func (w *world) sortedFiles(keep func(models.File) bool) []models.File {
	var result []models.File
	for _, f := range w.files {
		if keep(f) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (w *world) hit() error {
	w.calls++
	return w.fail
}

func (w *world) OwnedBy(_ context.Context, userID int64) ([]models.AnnotatedFile, error) {
	if err := w.hit(); err != nil {
		return nil, err
	}
	files := w.sortedFiles(func(f models.File) bool {
		if f.UploaderID == userID {
			return true
		}
		for _, o := range w.owners {
			if o.fileID == f.ID && o.userID == userID {
				return true
			}
		}
		return false
	})

	var result []models.AnnotatedFile
	for _, f := range files {
		provenance := models.ProvenanceCoOwned
		if f.UploaderID == userID {
			provenance = models.ProvenanceUploaded
		}
		for _, o := range w.owners {
			if o.fileID == f.ID && o.userID == userID && o.kind == models.OwnershipOriginal {
				provenance = models.ProvenanceUploaded
			}
		}
		result = append(result, models.AnnotatedFile{File: f, Provenance: provenance})
	}
	return result, nil
}

func (w *world) TransferredToUser(_ context.Context, userID int64) ([]models.File, error) {
	if err := w.hit(); err != nil {
		return nil, err
	}
	return w.sortedFiles(func(f models.File) bool {
		for _, t := range w.transfers {
			if t.FileID == f.ID && t.RecipientID != nil && *t.RecipientID == userID && t.Status == models.TransferAccepted {
				return true
			}
		}
		return false
	}), nil
}

func (w *world) ApprovedForRequester(_ context.Context, userID int64) ([]models.File, error) {
	if err := w.hit(); err != nil {
		return nil, err
	}
	return w.sortedFiles(func(f models.File) bool { return w.approved(f.ID, userID) }), nil
}

func (w *world) approved(fileID, userID int64) bool {
	for _, r := range w.requests {
		if r.FileID == fileID && r.RequesterID == userID && r.Status == models.RequestApproved {
			return true
		}
	}
	return false
}

func (w *world) UploadedByMembersOf(_ context.Context, departmentID int64) ([]models.File, error) {
	if err := w.hit(); err != nil {
		return nil, err
	}
	return w.sortedFiles(func(f models.File) bool {
		for _, a := range w.affiliations[f.UploaderID] {
			if a.DepartmentID == departmentID {
				return true
			}
		}
		return false
	}), nil
}

func (w *world) TransferredToDepartment(_ context.Context, departmentID int64) ([]models.File, error) {
	if err := w.hit(); err != nil {
		return nil, err
	}
	return w.sortedFiles(func(f models.File) bool {
		for _, t := range w.transfers {
			if t.FileID == f.ID && t.DepartmentID != nil && *t.DepartmentID == departmentID && t.Status == models.TransferAccepted {
				return true
			}
		}
		return false
	}), nil
}

func (w *world) ApprovedForRequesterInDepartment(_ context.Context, userID, departmentID int64) ([]models.File, error) {
	if err := w.hit(); err != nil {
		return nil, err
	}
	return w.sortedFiles(func(f models.File) bool {
		return f.DepartmentID != nil && *f.DepartmentID == departmentID && w.approved(f.ID, userID)
	}), nil
}

func (w *world) GetByID(_ context.Context, id int64) (*models.Department, error) {
	d, ok := w.departments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}
