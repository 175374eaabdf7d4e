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

// Pending list directions.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// TransferTarget names exactly one recipient: a user or a department.
type TransferTarget struct {
	RecipientID  *int64
	DepartmentID *int64
}

type TransferService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTransferService(db *sql.DB, m repomanager.RepositoryManager) *TransferService {
	return &TransferService{db: db, repomanager: m}
}

// Send creates a pending transfer of an owned file and notifies whoever can
// process it.
func (s *TransferService) Send(ctx context.Context, identity *models.Identity, fileID int64, target TransferTarget) (*models.Transfer, error) {
	if (target.RecipientID == nil) == (target.DepartmentID == nil) {
		return nil, fmt.Errorf("%w: choose either a recipient or a department", common.ErrorValidation)
	}
	if target.RecipientID != nil && *target.RecipientID == identity.UserID {
		return nil, fmt.Errorf("%w: cannot send a file to yourself", common.ErrorValidation)
	}

	transfer := &models.Transfer{
		FileID:       fileID,
		SenderID:     identity.UserID,
		RecipientID:  target.RecipientID,
		DepartmentID: target.DepartmentID,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		files := s.repomanager.Files(tx)
		f, err := files.GetByID(ctx, fileID)
		if err != nil {
			return err
		}
		if f.IsDeleted {
			return common.ErrorNotFound
		}
		owner, err := files.IsOwner(ctx, fileID, identity.UserID)
		if err != nil {
			return err
		}
		if !owner {
			return fmt.Errorf("%w: only the uploader or a co-owner can send this file", common.ErrorAccessDenied)
		}

		recipients, targetName, err := s.recipients(ctx, tx, identity.UserID, target)
		if err != nil {
			return err
		}

		if err := s.repomanager.Transfers(tx).Create(ctx, transfer); err != nil {
			return err
		}
		transfer.FileName = f.Name

		notifications := s.repomanager.Notifications(tx)
		for _, uid := range recipients {
			n := &models.Notification{
				UserID:  uid,
				FileID:  &fileID,
				Type:    models.NotificationReceived,
				Message: fmt.Sprintf("You received %s", f.Name),
			}
			if err := notifications.Create(ctx, n); err != nil {
				return err
			}
		}

		return logActivity(ctx, tx, s.repomanager, identity.UserID, &fileID, models.ActionSend,
			fmt.Sprintf("Sent %s to %s", f.Name, targetName))
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// recipients resolves the users to notify about a transfer to target.
// Department transfers go to every member except the sender.
func (s *TransferService) recipients(ctx context.Context, tx dbx.DBTX, senderID int64, target TransferTarget) ([]int64, string, error) {
	if target.RecipientID != nil {
		u, err := s.repomanager.Users(tx).GetByID(ctx, *target.RecipientID)
		if err != nil {
			return nil, "", err
		}
		return []int64{u.ID}, u.FullName, nil
	}

	department, err := s.repomanager.Departments(tx).GetByID(ctx, *target.DepartmentID)
	if err != nil {
		return nil, "", err
	}
	if !department.Type.TopLevel() {
		return nil, "", fmt.Errorf("%w: files are sent to a college or office", common.ErrorValidation)
	}
	members, err := s.repomanager.Users(tx).MemberIDs(ctx, department.ID)
	if err != nil {
		return nil, "", err
	}
	ids := make([]int64, 0, len(members))
	for _, id := range members {
		if id != senderID {
			ids = append(ids, id)
		}
	}
	return ids, department.Name, nil
}

// Process accepts or denies a pending transfer addressed to the caller or to
// one of the caller's departments.
func (s *TransferService) Process(ctx context.Context, identity *models.Identity, transferID int64, accept bool) (*models.Transfer, error) {
	status, action, notification, verb := models.TransferDenied, models.ActionDenyTransfer, models.NotificationTransferDenied, "denied"
	if accept {
		status, action, notification, verb = models.TransferAccepted, models.ActionAcceptTransfer, models.NotificationTransferAccepted, "accepted"
	}

	var transfer *models.Transfer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Transfers(tx)
		t, err := repo.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if !addressedTo(t, identity) {
			return fmt.Errorf("%w: this transfer is not addressed to you", common.ErrorAccessDenied)
		}
		if t.Status != models.TransferPending {
			return common.ErrAlreadyProcessed
		}

		ok, err := repo.Resolve(ctx, transferID, status)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := repo.GetByID(ctx, transferID); err != nil {
				return err
			}
			return common.ErrAlreadyProcessed
		}
		t.Status = status
		transfer = t

		notifications := s.repomanager.Notifications(tx)
		err = notifications.Create(ctx, &models.Notification{
			UserID:  t.SenderID,
			FileID:  &t.FileID,
			Type:    notification,
			Message: fmt.Sprintf("Your transfer of %s was %s", t.FileName, verb),
		})
		if err != nil {
			return err
		}
		if err := notifications.MarkProcessed(ctx, identity.UserID, t.FileID, models.NotificationReceived); err != nil {
			return err
		}

		return logActivity(ctx, tx, s.repomanager, identity.UserID, &t.FileID, action,
			fmt.Sprintf("Transfer of %s %s", t.FileName, verb))
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func addressedTo(t *models.Transfer, identity *models.Identity) bool {
	if t.RecipientID != nil {
		return *t.RecipientID == identity.UserID
	}
	return t.DepartmentID != nil && identity.AffiliatedWith(*t.DepartmentID)
}

// Pending lists the caller's pending incoming or outgoing transfers.
func (s *TransferService) Pending(ctx context.Context, identity *models.Identity, direction string) ([]models.Transfer, error) {
	repo := s.repomanager.Transfers(s.db)

	var (
		transfers []models.Transfer
		err       error
	)
	switch direction {
	case DirectionIncoming, "":
		transfers, err = repo.PendingIncoming(ctx, identity.UserID)
	case DirectionOutgoing:
		transfers, err = repo.PendingOutgoing(ctx, identity.UserID)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", common.ErrorValidation, direction)
	}
	if err != nil {
		return nil, err
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	return transfers, nil
}
