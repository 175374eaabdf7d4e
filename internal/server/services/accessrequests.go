package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
)

type AccessRequestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAccessRequestService(db *sql.DB, m repomanager.RepositoryManager) *AccessRequestService {
	return &AccessRequestService{db: db, repomanager: m}
}

// Request asks the uploader of fileID for access on behalf of the caller.
func (s *AccessRequestService) Request(ctx context.Context, identity *models.Identity, fileID int64) (*models.AccessRequest, error) {
	var request *models.AccessRequest
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		f, err := s.repomanager.Files(tx).GetByID(ctx, fileID)
		if err != nil {
			return err
		}
		if f.IsDeleted {
			return common.ErrorNotFound
		}
		if f.UploaderID == identity.UserID {
			return fmt.Errorf("%w: you already own this file", common.ErrorValidation)
		}

		repo := s.repomanager.AccessRequests(tx)
		pending, err := repo.HasPending(ctx, fileID, identity.UserID)
		if err != nil {
			return err
		}
		if pending {
			return fmt.Errorf("%w: access already requested", common.ErrorConflict)
		}

		request = &models.AccessRequest{
			FileID:      fileID,
			FileName:    f.Name,
			RequesterID: identity.UserID,
			OwnerID:     f.UploaderID,
		}
		if err := repo.Create(ctx, request); err != nil {
			return err
		}

		err = s.repomanager.Notifications(tx).Create(ctx, &models.Notification{
			UserID:  f.UploaderID,
			FileID:  &fileID,
			Type:    models.NotificationAccessRequest,
			Message: fmt.Sprintf("Access to %s was requested", f.Name),
		})
		if err != nil {
			return err
		}

		return logActivity(ctx, tx, s.repomanager, identity.UserID, &fileID, models.ActionRequestAccess,
			fmt.Sprintf("Requested access to %s", f.Name))
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Process approves or rejects a pending request owned by the caller.
func (s *AccessRequestService) Process(ctx context.Context, identity *models.Identity, requestID int64, approve bool) (*models.AccessRequest, error) {
	status, action, notification, verb := models.RequestRejected, models.ActionRejectRequest, models.NotificationRequestRejected, "rejected"
	if approve {
		status, action, notification, verb = models.RequestApproved, models.ActionApproveRequest, models.NotificationRequestApproved, "approved"
	}

	var request *models.AccessRequest
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.AccessRequests(tx)
		ar, err := repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if ar.OwnerID != identity.UserID {
			return fmt.Errorf("%w: only the file owner can process this request", common.ErrorAccessDenied)
		}
		if ar.Status != models.RequestPending {
			return common.ErrAlreadyProcessed
		}

		ok, err := repo.Resolve(ctx, requestID, status)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := repo.GetByID(ctx, requestID); err != nil {
				return err
			}
			return common.ErrAlreadyProcessed
		}
		ar.Status = status
		request = ar

		notifications := s.repomanager.Notifications(tx)
		err = notifications.Create(ctx, &models.Notification{
			UserID:  ar.RequesterID,
			FileID:  &ar.FileID,
			Type:    notification,
			Message: fmt.Sprintf("Your request for %s was %s", ar.FileName, verb),
		})
		if err != nil {
			return err
		}
		if err := notifications.MarkProcessed(ctx, identity.UserID, ar.FileID, models.NotificationAccessRequest); err != nil {
			return err
		}

		return logActivity(ctx, tx, s.repomanager, identity.UserID, &ar.FileID, action,
			fmt.Sprintf("Request for %s %s", ar.FileName, verb))
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Pending lists requests awaiting the caller's decision (incoming) or the
// caller's own open requests (outgoing).
func (s *AccessRequestService) Pending(ctx context.Context, identity *models.Identity, direction string) ([]models.AccessRequest, error) {
	repo := s.repomanager.AccessRequests(s.db)

	var (
		requests []models.AccessRequest
		err      error
	)
	switch direction {
	case DirectionIncoming, "":
		requests, err = repo.PendingForOwner(ctx, identity.UserID)
	case DirectionOutgoing:
		requests, err = repo.PendingForRequester(ctx, identity.UserID)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", common.ErrorValidation, direction)
	}
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.AccessRequest{}
	}
	return requests, nil
}
