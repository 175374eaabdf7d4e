package httpapi

import (
	"context"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/logging"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/services"
	"github.com/dmitrijs2005/docarchive/internal/server/visibility"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeUsers struct {
	identities map[int64]*models.Identity
	loadErr    error
	gotInput   services.UserInput
	gotID      int64
	err        error
}

func (f *fakeUsers) LoadIdentity(_ context.Context, userID int64) (*models.Identity, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	id, ok := f.identities[userID]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return id, nil
}

func (f *fakeUsers) List(context.Context, *models.Identity) ([]*models.User, error) {
	return []*models.User{{ID: 1, Username: "alice"}}, f.err
}

func (f *fakeUsers) Create(_ context.Context, _ *models.Identity, in services.UserInput) (*models.User, error) {
	f.gotInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: 10, Username: in.Username, Role: in.Role}, nil
}

func (f *fakeUsers) Update(_ context.Context, _ *models.Identity, id int64, in services.UserInput) (*models.User, error) {
	f.gotID, f.gotInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: id, Username: in.Username}, nil
}

func (f *fakeUsers) Delete(_ context.Context, _ *models.Identity, id int64) error {
	f.gotID = id
	return f.err
}

type fakeDepartments struct {
	gotID   int64
	gotName string
	gotType models.DepartmentType
	err     error
}

func (f *fakeDepartments) Mine(_ context.Context, identity *models.Identity) ([]models.Affiliation, error) {
	return identity.Affiliations, f.err
}

func (f *fakeDepartments) SubDepartments(_ context.Context, _ *models.Identity, departmentID int64) ([]models.Department, error) {
	f.gotID = departmentID
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeDepartments) ListAll(context.Context, *models.Identity) ([]models.Department, error) {
	return []models.Department{{ID: 1, Name: "Registrar", Type: models.DepartmentOffice}}, f.err
}

func (f *fakeDepartments) Create(_ context.Context, _ *models.Identity, name string, typ models.DepartmentType) (*models.Department, error) {
	f.gotName, f.gotType = name, typ
	if f.err != nil {
		return nil, f.err
	}
	return &models.Department{ID: 5, Name: name, Type: typ}, nil
}

func (f *fakeDepartments) CreateSubDepartment(_ context.Context, _ *models.Identity, parentID int64, name string) (*models.Department, error) {
	f.gotID, f.gotName = parentID, name
	if f.err != nil {
		return nil, f.err
	}
	return &models.Department{ID: 6, Name: name, Type: models.DepartmentSub, ParentID: &parentID}, nil
}

func (f *fakeDepartments) Update(_ context.Context, _ *models.Identity, id int64, name string, typ models.DepartmentType) (*models.Department, error) {
	f.gotID, f.gotName, f.gotType = id, name, typ
	if f.err != nil {
		return nil, f.err
	}
	return &models.Department{ID: id, Name: name, Type: typ}, nil
}

func (f *fakeDepartments) Delete(_ context.Context, _ *models.Identity, id int64) error {
	f.gotID = id
	return f.err
}

type fakeFiles struct {
	entries []models.AnnotatedFile
	err     error

	gotIdentity *models.Identity
	gotScope    visibility.Scope
	gotFilters  visibility.Filters
	gotID       int64
	gotAction   services.FileAction
	gotUpload   services.UploadInput
}

func (f *fakeFiles) List(_ context.Context, identity *models.Identity, scope visibility.Scope, filters visibility.Filters) ([]models.AnnotatedFile, error) {
	f.gotIdentity, f.gotScope, f.gotFilters = identity, scope, filters
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeFiles) Hardcopies(_ context.Context, _ *models.Identity, departmentID int64) ([]models.AnnotatedFile, error) {
	f.gotID = departmentID
	return f.entries, f.err
}

func (f *fakeFiles) Act(_ context.Context, _ *models.Identity, fileID int64, action services.FileAction) (*services.ActionResult, error) {
	f.gotID, f.gotAction = fileID, action
	if f.err != nil {
		return nil, f.err
	}
	if action.Action == services.FileActionMakeCopy {
		return &services.ActionResult{Message: "File copy created successfully", File: &models.File{ID: 77, Name: "Copy"}}, nil
	}
	return &services.ActionResult{Message: "File renamed successfully"}, nil
}

func (f *fakeFiles) RegisterUpload(_ context.Context, _ *models.Identity, in services.UploadInput) (*models.UploadTicket, error) {
	f.gotUpload = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.UploadTicket{File: models.File{ID: 42, Name: in.Name}, UploadURL: "https://s3.local/put"}, nil
}

func (f *fakeFiles) DownloadURL(_ context.Context, _ *models.Identity, fileID int64) (string, error) {
	f.gotID = fileID
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.local/get", nil
}

type fakeTransfers struct {
	gotID     int64
	gotAccept bool
	gotTarget services.TransferTarget
	gotDir    string
	err       error
}

func (f *fakeTransfers) Send(_ context.Context, _ *models.Identity, fileID int64, target services.TransferTarget) (*models.Transfer, error) {
	f.gotID, f.gotTarget = fileID, target
	if f.err != nil {
		return nil, f.err
	}
	return &models.Transfer{ID: 9, FileID: fileID, RecipientID: target.RecipientID, Status: models.TransferPending}, nil
}

func (f *fakeTransfers) Process(_ context.Context, _ *models.Identity, id int64, accept bool) (*models.Transfer, error) {
	f.gotID, f.gotAccept = id, accept
	if f.err != nil {
		return nil, f.err
	}
	return &models.Transfer{ID: id}, nil
}

func (f *fakeTransfers) Pending(_ context.Context, _ *models.Identity, direction string) ([]models.Transfer, error) {
	f.gotDir = direction
	return nil, f.err
}

type fakeAccessRequests struct {
	gotID      int64
	gotApprove bool
	gotDir     string
	err        error
}

func (f *fakeAccessRequests) Request(_ context.Context, _ *models.Identity, fileID int64) (*models.AccessRequest, error) {
	f.gotID = fileID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AccessRequest{ID: 3, FileID: fileID, Status: models.RequestPending}, nil
}

func (f *fakeAccessRequests) Process(_ context.Context, _ *models.Identity, id int64, approve bool) (*models.AccessRequest, error) {
	f.gotID, f.gotApprove = id, approve
	if f.err != nil {
		return nil, f.err
	}
	return &models.AccessRequest{ID: id}, nil
}

func (f *fakeAccessRequests) Pending(_ context.Context, _ *models.Identity, direction string) ([]models.AccessRequest, error) {
	f.gotDir = direction
	return nil, f.err
}

type fakeDocumentTypes struct {
	gotName string
}

func (f *fakeDocumentTypes) List(context.Context) ([]models.DocumentType, error) {
	return []models.DocumentType{{ID: 1, Name: "Memo"}}, nil
}

func (f *fakeDocumentTypes) Fields(_ context.Context, typeName string) ([]models.FieldDef, error) {
	f.gotName = typeName
	if typeName != "Memo" {
		return []models.FieldDef{}, nil
	}
	return []models.FieldDef{{Name: "subject", Label: "Subject", Type: models.FieldText, Required: true}}, nil
}

type fakeFeed struct{}

func (fakeFeed) Notifications(_ context.Context, identity *models.Identity) ([]models.Notification, error) {
	return []models.Notification{{ID: 1, UserID: identity.UserID, Type: models.NotificationReceived}}, nil
}

func (fakeFeed) Activity(context.Context, *models.Identity) ([]models.Activity, error) {
	return nil, nil
}

type fakeReports struct{}

func (fakeReports) AdminStats(context.Context, *models.Identity) (*models.AdminStats, error) {
	return &models.AdminStats{TotalUsers: 4, TotalFiles: 7}, nil
}

func (fakeReports) ActivityReport(context.Context, *models.Identity) ([]models.ActivityReportRow, error) {
	return []models.ActivityReportRow{{Kind: models.ReportKindTransfer, FileName: "Budget.pdf", Status: "pending"}}, nil
}

func (fakeReports) UserReport(_ context.Context, identity *models.Identity) (*models.UserReport, error) {
	return &models.UserReport{UserID: identity.UserID, Total: 2, ByDocumentType: []models.TypeCount{}}, nil
}
