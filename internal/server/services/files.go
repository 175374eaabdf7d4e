package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docarchive/internal/server/visibility"
)

// File actions accepted by FileService.Act.
const (
	FileActionRename   = "rename"
	FileActionDelete   = "delete"
	FileActionMakeCopy = "make_copy"
)

type FileAction struct {
	Action  string
	NewName string
}

// ActionResult reports the outcome of a file action. File is set for
// actions that produce a file.
type ActionResult struct {
	Message string
	File    *models.File
}

// UploadInput describes a file being registered in the archive.
type UploadInput struct {
	Name              string
	DocumentType      string
	DepartmentID      int64
	SubDepartmentID   *int64
	HardCopyAvailable bool
	Softcopy          bool
	Size              int64
	Metadata          map[string]string
}

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     ObjectStorage
	doctypes    *DocumentTypeService
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, storage ObjectStorage, doctypes *DocumentTypeService) *FileService {
	return &FileService{db: db, repomanager: m, storage: storage, doctypes: doctypes}
}

// List resolves the files visible to the caller. Listings run without a
// transaction.
func (s *FileService) List(ctx context.Context, identity *models.Identity, scope visibility.Scope, filters visibility.Filters) ([]models.AnnotatedFile, error) {
	return newResolver(s.db, s.repomanager).Resolve(ctx, identity, scope, filters)
}

// Hardcopies lists the hardcopy-only files of a department.
func (s *FileService) Hardcopies(ctx context.Context, identity *models.Identity, departmentID int64) ([]models.AnnotatedFile, error) {
	return s.List(ctx, identity, visibility.Department(departmentID), visibility.Filters{CopyKind: models.CopyKindHardcopy})
}

// findVisible returns fileID when the caller can see it in any scope. A live
// file the caller cannot see yields ErrorAccessDenied.
func (s *FileService) findVisible(ctx context.Context, identity *models.Identity, fileID int64) (*models.AnnotatedFile, error) {
	f, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.IsDeleted {
		return nil, common.ErrorNotFound
	}

	// personal channels ignore sub-department tags, department scopes do not
	for _, scope := range []visibility.Scope{visibility.Personal(), visibility.AllAccessible()} {
		visible, err := s.List(ctx, identity, scope, visibility.Filters{})
		if err != nil {
			return nil, err
		}
		for i := range visible {
			if visible[i].File.ID == fileID {
				return &visible[i], nil
			}
		}
	}
	return nil, common.ErrorAccessDenied
}

// Act runs a rename, delete or make_copy action together with its activity
// row in one transaction.
func (s *FileService) Act(ctx context.Context, identity *models.Identity, fileID int64, action FileAction) (*ActionResult, error) {
	switch action.Action {
	case FileActionRename:
		return s.rename(ctx, identity, fileID, action.NewName)
	case FileActionDelete:
		return s.delete(ctx, identity, fileID)
	case FileActionMakeCopy:
		return s.makeCopy(ctx, identity, fileID)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", common.ErrorValidation, action.Action)
	}
}

// ownedLiveFile loads a live file and requires the caller to own it.
func (s *FileService) ownedLiveFile(ctx context.Context, tx dbx.DBTX, identity *models.Identity, fileID int64) (*models.File, error) {
	repo := s.repomanager.Files(tx)
	f, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.IsDeleted {
		return nil, common.ErrorNotFound
	}
	owner, err := repo.IsOwner(ctx, fileID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, fmt.Errorf("%w: only the uploader or a co-owner can change this file", common.ErrorAccessDenied)
	}
	return f, nil
}

func (s *FileService) rename(ctx context.Context, identity *models.Identity, fileID int64, newName string) (*ActionResult, error) {
	name, err := cleanName("new name", newName)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		f, err := s.ownedLiveFile(ctx, tx, identity, fileID)
		if err != nil {
			return err
		}
		if err := s.repomanager.Files(tx).Rename(ctx, fileID, name); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, &fileID, models.ActionRename,
			fmt.Sprintf("Renamed %s to %s", f.Name, name))
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Message: "File renamed successfully"}, nil
}

func (s *FileService) delete(ctx context.Context, identity *models.Identity, fileID int64) (*ActionResult, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		f, err := s.ownedLiveFile(ctx, tx, identity, fileID)
		if err != nil {
			return err
		}
		if err := s.repomanager.Files(tx).SoftDelete(ctx, fileID); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, &fileID, models.ActionDelete,
			fmt.Sprintf("Deleted %s", f.Name))
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Message: "File deleted successfully"}, nil
}

// makeCopy files a new row owned by the caller that keeps the original's
// metadata and storage object.
func (s *FileService) makeCopy(ctx context.Context, identity *models.Identity, fileID int64) (*ActionResult, error) {
	original, err := s.findVisible(ctx, identity, fileID)
	if err != nil {
		return nil, err
	}
	src := original.File

	copied := &models.File{
		Name:              "Copy of " + src.Name,
		UploaderID:        identity.UserID,
		DocumentTypeID:    src.DocumentTypeID,
		DocumentType:      src.DocumentType,
		DepartmentID:      src.DepartmentID,
		SubDepartmentID:   src.SubDepartmentID,
		StoragePath:       src.StoragePath,
		HardCopyAvailable: src.HardCopyAvailable,
		Size:              src.Size,
		Metadata:          src.Metadata,
		CopyType:          models.CopyTypeCopy,
		CopiedFrom:        &src.ID,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)
		if err := repo.Create(ctx, copied); err != nil {
			return err
		}
		if err := repo.AddOwner(ctx, copied.ID, identity.UserID, models.OwnershipOriginal); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, &copied.ID, models.ActionCopy,
			fmt.Sprintf("Copied %s", src.Name))
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Message: "File copy created successfully", File: copied}, nil
}

// RegisterUpload files a new document. Softcopy uploads receive a presigned
// URL the client PUTs the content to.
func (s *FileService) RegisterUpload(ctx context.Context, identity *models.Identity, in UploadInput) (*models.UploadTicket, error) {
	name, err := cleanName("file name", in.Name)
	if err != nil {
		return nil, err
	}
	if !in.HardCopyAvailable && !in.Softcopy {
		return nil, fmt.Errorf("%w: a file needs a hardcopy, a softcopy or both", common.ErrorValidation)
	}
	if in.Size < 0 {
		return nil, fmt.Errorf("%w: size cannot be negative", common.ErrorValidation)
	}

	if err := s.checkPlacement(ctx, identity, in.DepartmentID, in.SubDepartmentID); err != nil {
		return nil, err
	}

	file := &models.File{
		Name:              name,
		UploaderID:        identity.UserID,
		DepartmentID:      &in.DepartmentID,
		SubDepartmentID:   in.SubDepartmentID,
		HardCopyAvailable: in.HardCopyAvailable,
		Size:              in.Size,
		Metadata:          in.Metadata,
	}

	if in.DocumentType != "" {
		docType, err := s.repomanager.DocumentTypes(s.db).GetByName(ctx, in.DocumentType)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("%w: document type %s", common.ErrorNotFound, in.DocumentType)
			}
			return nil, err
		}
		fields, err := s.doctypes.Fields(ctx, docType.Name)
		if err != nil {
			return nil, err
		}
		if err := ValidateMetadata(fields, in.Metadata); err != nil {
			return nil, err
		}
		file.DocumentTypeID = &docType.ID
		file.DocumentType = docType.Name
	}

	var uploadURL string
	if in.Softcopy {
		key, url, err := s.storage.PresignPut(ctx, identity.UserID)
		if err != nil {
			return nil, fmt.Errorf("error presigning upload: %w", err)
		}
		file.StoragePath = key
		uploadURL = url
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)
		if err := repo.Create(ctx, file); err != nil {
			return err
		}
		if err := repo.AddOwner(ctx, file.ID, identity.UserID, models.OwnershipOriginal); err != nil {
			return err
		}
		return logActivity(ctx, tx, s.repomanager, identity.UserID, &file.ID, models.ActionUpload,
			fmt.Sprintf("Uploaded %s", file.Name))
	})
	if err != nil {
		return nil, err
	}

	return &models.UploadTicket{File: *file, UploadURL: uploadURL}, nil
}

// checkPlacement requires the caller to belong to the target department and,
// when given, to the sub-department, which must be a child of it.
func (s *FileService) checkPlacement(ctx context.Context, identity *models.Identity, departmentID int64, subDepartmentID *int64) error {
	repo := s.repomanager.Departments(s.db)

	department, err := repo.GetByID(ctx, departmentID)
	if err != nil {
		return err
	}
	if !department.Type.TopLevel() {
		return fmt.Errorf("%w: files are filed under a college or office", common.ErrorValidation)
	}
	if !identity.AffiliatedWith(departmentID) {
		return common.ErrorAccessDenied
	}
	if subDepartmentID == nil {
		return nil
	}

	sub, err := repo.GetByID(ctx, *subDepartmentID)
	if err != nil {
		return err
	}
	if sub.ParentID == nil || *sub.ParentID != departmentID {
		return fmt.Errorf("%w: %s is not a sub-department of %s", common.ErrorValidation, sub.Name, department.Name)
	}
	if !identity.InSubDepartment(*subDepartmentID) {
		return common.ErrorAccessDenied
	}
	return nil
}

// DownloadURL presigns a download of a visible file's digital copy.
func (s *FileService) DownloadURL(ctx context.Context, identity *models.Identity, fileID int64) (string, error) {
	entry, err := s.findVisible(ctx, identity, fileID)
	if err != nil {
		return "", err
	}
	if entry.File.StoragePath == "" {
		return "", fmt.Errorf("%w: %s has no digital copy", common.ErrorValidation, entry.File.Name)
	}
	return s.storage.PresignGet(ctx, entry.File.StoragePath)
}
