package transfers

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, id int64) (*models.Transfer, error)
	Resolve(ctx context.Context, id int64, status models.TransferStatus) (bool, error)
	PendingIncoming(ctx context.Context, userID int64) ([]models.Transfer, error)
	PendingOutgoing(ctx context.Context, userID int64) ([]models.Transfer, error)
	CountPendingIncoming(ctx context.Context, userID int64) (int, error)
	CountPendingOutgoing(ctx context.Context, userID int64) (int, error)
	ReportRows(ctx context.Context) ([]models.ActivityReportRow, error)
}
