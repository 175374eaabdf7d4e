package files

import (
	"context"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

// Repository persists files and their ownerships and answers the candidate
// queries of the visibility resolver. Candidate queries do not filter
// soft-deleted rows.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.File, error)
	Create(ctx context.Context, file *models.File) error
	AddOwner(ctx context.Context, fileID, userID int64, ownership models.OwnershipType) error
	IsOwner(ctx context.Context, fileID, userID int64) (bool, error)
	Rename(ctx context.Context, id int64, name string) error
	SoftDelete(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
	UploadsPerDay(ctx context.Context, since time.Time) ([]models.DailyCount, error)

	OwnedBy(ctx context.Context, userID int64) ([]models.AnnotatedFile, error)
	TransferredToUser(ctx context.Context, userID int64) ([]models.File, error)
	ApprovedForRequester(ctx context.Context, userID int64) ([]models.File, error)
	UploadedByMembersOf(ctx context.Context, departmentID int64) ([]models.File, error)
	TransferredToDepartment(ctx context.Context, departmentID int64) ([]models.File, error)
	ApprovedForRequesterInDepartment(ctx context.Context, userID, departmentID int64) ([]models.File, error)
}
