package httpapi

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/services"
	"github.com/dmitrijs2005/docarchive/internal/server/visibility"
)

// The interfaces below are implemented by the services package.

type Users interface {
	LoadIdentity(ctx context.Context, userID int64) (*models.Identity, error)
	List(ctx context.Context, identity *models.Identity) ([]*models.User, error)
	Create(ctx context.Context, identity *models.Identity, in services.UserInput) (*models.User, error)
	Update(ctx context.Context, identity *models.Identity, id int64, in services.UserInput) (*models.User, error)
	Delete(ctx context.Context, identity *models.Identity, id int64) error
}

type Departments interface {
	Mine(ctx context.Context, identity *models.Identity) ([]models.Affiliation, error)
	SubDepartments(ctx context.Context, identity *models.Identity, departmentID int64) ([]models.Department, error)
	ListAll(ctx context.Context, identity *models.Identity) ([]models.Department, error)
	Create(ctx context.Context, identity *models.Identity, name string, typ models.DepartmentType) (*models.Department, error)
	CreateSubDepartment(ctx context.Context, identity *models.Identity, parentID int64, name string) (*models.Department, error)
	Update(ctx context.Context, identity *models.Identity, id int64, name string, typ models.DepartmentType) (*models.Department, error)
	Delete(ctx context.Context, identity *models.Identity, id int64) error
}

type Files interface {
	List(ctx context.Context, identity *models.Identity, scope visibility.Scope, filters visibility.Filters) ([]models.AnnotatedFile, error)
	Hardcopies(ctx context.Context, identity *models.Identity, departmentID int64) ([]models.AnnotatedFile, error)
	Act(ctx context.Context, identity *models.Identity, fileID int64, action services.FileAction) (*services.ActionResult, error)
	RegisterUpload(ctx context.Context, identity *models.Identity, in services.UploadInput) (*models.UploadTicket, error)
	DownloadURL(ctx context.Context, identity *models.Identity, fileID int64) (string, error)
}

type Transfers interface {
	Send(ctx context.Context, identity *models.Identity, fileID int64, target services.TransferTarget) (*models.Transfer, error)
	Process(ctx context.Context, identity *models.Identity, transferID int64, accept bool) (*models.Transfer, error)
	Pending(ctx context.Context, identity *models.Identity, direction string) ([]models.Transfer, error)
}

type AccessRequests interface {
	Request(ctx context.Context, identity *models.Identity, fileID int64) (*models.AccessRequest, error)
	Process(ctx context.Context, identity *models.Identity, requestID int64, approve bool) (*models.AccessRequest, error)
	Pending(ctx context.Context, identity *models.Identity, direction string) ([]models.AccessRequest, error)
}

type DocumentTypes interface {
	List(ctx context.Context) ([]models.DocumentType, error)
	Fields(ctx context.Context, typeName string) ([]models.FieldDef, error)
}

type Feed interface {
	Notifications(ctx context.Context, identity *models.Identity) ([]models.Notification, error)
	Activity(ctx context.Context, identity *models.Identity) ([]models.Activity, error)
}

type Reports interface {
	AdminStats(ctx context.Context, identity *models.Identity) (*models.AdminStats, error)
	ActivityReport(ctx context.Context, identity *models.Identity) ([]models.ActivityReportRow, error)
	UserReport(ctx context.Context, identity *models.Identity) (*models.UserReport, error)
}

// Services bundles everything the API serves.
type Services struct {
	Users          Users
	Departments    Departments
	Files          Files
	Transfers      Transfers
	AccessRequests AccessRequests
	DocumentTypes  DocumentTypes
	Feed           Feed
	Reports        Reports
}
