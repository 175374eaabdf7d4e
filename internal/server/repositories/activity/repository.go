package activity

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

type Repository interface {
	Log(ctx context.Context, entry *models.Activity) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]models.Activity, error)
}
