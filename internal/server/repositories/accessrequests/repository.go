package accessrequests

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, request *models.AccessRequest) error
	GetByID(ctx context.Context, id int64) (*models.AccessRequest, error)
	HasPending(ctx context.Context, fileID, requesterID int64) (bool, error)
	Resolve(ctx context.Context, id int64, status models.RequestStatus) (bool, error)
	PendingForOwner(ctx context.Context, ownerID int64) ([]models.AccessRequest, error)
	PendingForRequester(ctx context.Context, requesterID int64) ([]models.AccessRequest, error)
	CountPending(ctx context.Context) (int, error)
	ReportRows(ctx context.Context) ([]models.ActivityReportRow, error)
}
