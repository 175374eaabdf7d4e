package notifications

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	MarkProcessed(ctx context.Context, userID, fileID int64, typ models.NotificationType) error
}
