package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
)

// FeedService serves the notification and activity polls.
type FeedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedService(db *sql.DB, m repomanager.RepositoryManager) *FeedService {
	return &FeedService{db: db, repomanager: m}
}

func (s *FeedService) Notifications(ctx context.Context, identity *models.Identity) ([]models.Notification, error) {
	items, err := s.repomanager.Notifications(s.db).ListForUser(ctx, identity.UserID, FeedLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

func (s *FeedService) Activity(ctx context.Context, identity *models.Identity) ([]models.Activity, error) {
	items, err := s.repomanager.Activity(s.db).ListForUser(ctx, identity.UserID, FeedLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Activity{}
	}
	return items, nil
}
