package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/accessrequests"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/activity"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/departments"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/doctypes"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/files"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/users"
)

// --- helpers ---

func ptr(v int64) *int64 { return &v }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// expectTx registers one transaction that commits when ok, rolls back otherwise.
func expectTx(mock sqlmock.Sqlmock, ok bool) {
	mock.ExpectBegin()
	if ok {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

// store is an in-memory archive shared by the fake repositories. It does not
// roll back on transaction failure.
type store struct {
	nextID int64
	now    time.Time

	users         map[int64]*models.User
	affiliations  map[int64][]models.Affiliation
	departments   map[int64]*models.Department
	files         map[int64]*models.File
	owners        map[int64]map[int64]models.OwnershipType
	transfers     map[int64]*models.Transfer
	requests      map[int64]*models.AccessRequest
	notifications []models.Notification
	activity      []models.Activity
	docTypes      []models.DocumentType
	fields        map[string][]models.FieldDef

	// failOn makes the named repository call return the error.
	failOn map[string]error
	// beforeResolve runs ahead of a conditional status update, standing in
	// for a concurrent decision.
	beforeResolve func()
}

func newStore() *store {
	return &store{
		nextID:       1000,
		now:          time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		users:        map[int64]*models.User{},
		affiliations: map[int64][]models.Affiliation{},
		departments:  map[int64]*models.Department{},
		files:        map[int64]*models.File{},
		owners:       map[int64]map[int64]models.OwnershipType{},
		transfers:    map[int64]*models.Transfer{},
		requests:     map[int64]*models.AccessRequest{},
		fields:       map[string][]models.FieldDef{},
		failOn:       map[string]error{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) fail(op string) error { return s.failOn[op] }

func (s *store) addDepartment(id int64, name string, typ models.DepartmentType, parentID *int64) {
	s.departments[id] = &models.Department{ID: id, Name: name, Type: typ, ParentID: parentID}
}

func (s *store) addUser(id int64, name string, role models.Role, affs ...models.Affiliation) *models.Identity {
	s.users[id] = &models.User{ID: id, Username: strings.ToLower(name), FullName: name, Role: role}
	s.affiliations[id] = affs
	return &models.Identity{UserID: id, Role: role, Affiliations: affs}
}

func (s *store) addFile(f models.File) *models.File {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = s.now.Add(time.Duration(f.ID) * time.Minute)
	}
	s.files[f.ID] = &f
	s.own(f.ID, f.UploaderID, models.OwnershipOriginal)
	return &f
}

func (s *store) own(fileID, userID int64, typ models.OwnershipType) {
	if s.owners[fileID] == nil {
		s.owners[fileID] = map[int64]models.OwnershipType{}
	}
	s.owners[fileID][userID] = typ
}

func (s *store) notificationsFor(userID int64) []models.Notification {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *store) affiliated(userID, departmentID int64) bool {
	for _, a := range s.affiliations[userID] {
		if a.DepartmentID == departmentID {
			return true
		}
	}
	return false
}

// --- repository manager ---

type fakeRepoManager struct {
	s *store
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository {
	return &fakeUsersRepo{m.s}
}

func (m *fakeRepoManager) Departments(dbx.DBTX) departments.Repository {
	return &fakeDepartmentsRepo{m.s}
}

func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository {
	return &fakeFilesRepo{m.s}
}

func (m *fakeRepoManager) Transfers(dbx.DBTX) transfers.Repository {
	return &fakeTransfersRepo{m.s}
}

func (m *fakeRepoManager) AccessRequests(dbx.DBTX) accessrequests.Repository {
	return &fakeRequestsRepo{m.s}
}

func (m *fakeRepoManager) DocumentTypes(dbx.DBTX) doctypes.Repository {
	return &fakeDocTypesRepo{m.s}
}

func (m *fakeRepoManager) Activity(dbx.DBTX) activity.Repository {
	return &fakeActivityRepo{m.s}
}

func (m *fakeRepoManager) Notifications(dbx.DBTX) notifications.Repository {
	return &fakeNotificationsRepo{m.s}
}

// --- users ---

type fakeUsersRepo struct{ s *store }

func (r *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if err := r.s.fail("users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return common.ErrorConflict
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.now
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUsersRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := r.s.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)
	delete(r.s.affiliations, id)
	return nil
}

func (r *fakeUsersRepo) Count(context.Context) (int, error) { return len(r.s.users), nil }

func (r *fakeUsersRepo) CountPerDepartment(context.Context) ([]models.DepartmentCount, error) {
	var out []models.DepartmentCount
	for _, d := range r.s.departments {
		if !d.Type.TopLevel() {
			continue
		}
		c := models.DepartmentCount{DepartmentID: d.ID, Name: d.Name}
		for uid := range r.s.users {
			if r.s.affiliated(uid, d.ID) {
				c.Users++
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUsersRepo) Affiliations(_ context.Context, userID int64) ([]models.Affiliation, error) {
	return r.s.affiliations[userID], nil
}

func (r *fakeUsersRepo) AllAffiliations(context.Context) (map[int64][]models.Affiliation, error) {
	return r.s.affiliations, nil
}

func (r *fakeUsersRepo) ReplaceAffiliations(_ context.Context, userID int64, affs []models.Affiliation) error {
	r.s.affiliations[userID] = affs
	return nil
}

func (r *fakeUsersRepo) MemberIDs(_ context.Context, departmentID int64) ([]int64, error) {
	var ids []int64
	for uid := range r.s.users {
		if r.s.affiliated(uid, departmentID) {
			ids = append(ids, uid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- departments ---

type fakeDepartmentsRepo struct{ s *store }

func (r *fakeDepartmentsRepo) GetByID(_ context.Context, id int64) (*models.Department, error) {
	if err := r.s.fail("departments.GetByID"); err != nil {
		return nil, err
	}
	d, ok := r.s.departments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDepartmentsRepo) ListTopLevel(context.Context) ([]models.Department, error) {
	var out []models.Department
	for _, d := range r.s.departments {
		if d.Type.TopLevel() {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDepartmentsRepo) ListSubDepartments(_ context.Context, parentID *int64) ([]models.Department, error) {
	var out []models.Department
	for _, d := range r.s.departments {
		if d.Type.TopLevel() {
			continue
		}
		if parentID == nil || *d.ParentID == *parentID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDepartmentsRepo) Create(_ context.Context, d *models.Department) error {
	d.ID = r.s.id()
	cp := *d
	r.s.departments[d.ID] = &cp
	return nil
}

func (r *fakeDepartmentsRepo) Update(_ context.Context, d *models.Department) error {
	cp := *d
	r.s.departments[d.ID] = &cp
	return nil
}

func (r *fakeDepartmentsRepo) Delete(_ context.Context, id int64) error {
	delete(r.s.departments, id)
	return nil
}

func (r *fakeDepartmentsRepo) NameTaken(_ context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	for _, d := range r.s.departments {
		if d.ID == excludeID || !strings.EqualFold(d.Name, name) {
			continue
		}
		if (d.ParentID == nil && parentID == nil) || (d.ParentID != nil && parentID != nil && *d.ParentID == *parentID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDepartmentsRepo) Usage(_ context.Context, id int64) (models.DepartmentUsage, error) {
	var u models.DepartmentUsage
	for _, d := range r.s.departments {
		if d.ParentID != nil && *d.ParentID == id {
			u.SubDepartments++
		}
	}
	for uid := range r.s.affiliations {
		if r.s.affiliated(uid, id) {
			u.Users++
		}
	}
	for _, f := range r.s.files {
		if (f.DepartmentID != nil && *f.DepartmentID == id) || (f.SubDepartmentID != nil && *f.SubDepartmentID == id) {
			u.Files++
		}
	}
	return u, nil
}

// --- files ---

type fakeFilesRepo struct{ s *store }

func (r *fakeFilesRepo) GetByID(_ context.Context, id int64) (*models.File, error) {
	if err := r.s.fail("files.GetByID"); err != nil {
		return nil, err
	}
	f, ok := r.s.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFilesRepo) Create(_ context.Context, f *models.File) error {
	if err := r.s.fail("files.Create"); err != nil {
		return err
	}
	f.ID = r.s.id()
	f.UploadedAt = r.s.now
	cp := *f
	r.s.files[f.ID] = &cp
	return nil
}

func (r *fakeFilesRepo) AddOwner(_ context.Context, fileID, userID int64, typ models.OwnershipType) error {
	r.s.own(fileID, userID, typ)
	return nil
}

func (r *fakeFilesRepo) IsOwner(_ context.Context, fileID, userID int64) (bool, error) {
	_, ok := r.s.owners[fileID][userID]
	return ok, nil
}

func (r *fakeFilesRepo) Rename(_ context.Context, id int64, name string) error {
	r.s.files[id].Name = name
	return nil
}

func (r *fakeFilesRepo) SoftDelete(_ context.Context, id int64) error {
	r.s.files[id].IsDeleted = true
	return nil
}

func (r *fakeFilesRepo) CountActive(context.Context) (int, error) {
	n := 0
	for _, f := range r.s.files {
		if !f.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeFilesRepo) UploadsPerDay(_ context.Context, since time.Time) ([]models.DailyCount, error) {
	counts := map[time.Time]int{}
	for _, f := range r.s.files {
		if f.IsDeleted || f.UploadedAt.Before(since) {
			continue
		}
		counts[f.UploadedAt.UTC().Truncate(24*time.Hour)]++
	}
	var out []models.DailyCount
	for day, n := range counts {
		out = append(out, models.DailyCount{Day: day, Uploads: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *fakeFilesRepo) OwnedBy(_ context.Context, userID int64) ([]models.AnnotatedFile, error) {
	var out []models.AnnotatedFile
	for fileID, owners := range r.s.owners {
		typ, ok := owners[userID]
		if !ok {
			continue
		}
		f := *r.s.files[fileID]
		provenance := models.ProvenanceCoOwned
		if typ == models.OwnershipOriginal && f.UploaderID == userID {
			provenance = models.ProvenanceUploaded
		}
		out = append(out, models.AnnotatedFile{File: f, Provenance: provenance})
	}
	return out, nil
}

func (r *fakeFilesRepo) transferred(match func(*models.Transfer) bool) []models.File {
	var out []models.File
	for _, t := range r.s.transfers {
		if t.Status == models.TransferAccepted && match(t) {
			out = append(out, *r.s.files[t.FileID])
		}
	}
	return out
}

func (r *fakeFilesRepo) approved(match func(*models.AccessRequest, *models.File) bool) []models.File {
	var out []models.File
	for _, ar := range r.s.requests {
		f := r.s.files[ar.FileID]
		if ar.Status == models.RequestApproved && match(ar, f) {
			out = append(out, *f)
		}
	}
	return out
}

func (r *fakeFilesRepo) TransferredToUser(_ context.Context, userID int64) ([]models.File, error) {
	return r.transferred(func(t *models.Transfer) bool {
		return t.RecipientID != nil && *t.RecipientID == userID
	}), nil
}

func (r *fakeFilesRepo) ApprovedForRequester(_ context.Context, userID int64) ([]models.File, error) {
	if err := r.s.fail("files.ApprovedForRequester"); err != nil {
		return nil, err
	}
	return r.approved(func(ar *models.AccessRequest, _ *models.File) bool {
		return ar.RequesterID == userID
	}), nil
}

func (r *fakeFilesRepo) UploadedByMembersOf(_ context.Context, departmentID int64) ([]models.File, error) {
	var out []models.File
	for _, f := range r.s.files {
		if f.DepartmentID != nil && *f.DepartmentID == departmentID && r.s.affiliated(f.UploaderID, departmentID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFilesRepo) TransferredToDepartment(_ context.Context, departmentID int64) ([]models.File, error) {
	return r.transferred(func(t *models.Transfer) bool {
		return t.DepartmentID != nil && *t.DepartmentID == departmentID
	}), nil
}

func (r *fakeFilesRepo) ApprovedForRequesterInDepartment(_ context.Context, userID, departmentID int64) ([]models.File, error) {
	return r.approved(func(ar *models.AccessRequest, f *models.File) bool {
		return ar.RequesterID == userID && f.DepartmentID != nil && *f.DepartmentID == departmentID
	}), nil
}

// --- transfers ---

type fakeTransfersRepo struct{ s *store }

func (r *fakeTransfersRepo) Create(_ context.Context, t *models.Transfer) error {
	t.ID = r.s.id()
	t.Status = models.TransferPending
	t.SentAt = r.s.now
	cp := *t
	r.s.transfers[t.ID] = &cp
	return nil
}

func (r *fakeTransfersRepo) GetByID(_ context.Context, id int64) (*models.Transfer, error) {
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	cp.FileName = r.s.files[t.FileID].Name
	return &cp, nil
}

func (r *fakeTransfersRepo) Resolve(_ context.Context, id int64, status models.TransferStatus) (bool, error) {
	if err := r.s.fail("transfers.Resolve"); err != nil {
		return false, err
	}
	if r.s.beforeResolve != nil {
		r.s.beforeResolve()
	}
	t, ok := r.s.transfers[id]
	if !ok || t.Status != models.TransferPending {
		return false, nil
	}
	t.Status = status
	return true, nil
}

func (r *fakeTransfersRepo) pending(match func(*models.Transfer) bool) []models.Transfer {
	var out []models.Transfer
	for _, t := range r.s.transfers {
		if t.Status == models.TransferPending && match(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeTransfersRepo) incoming(userID int64) func(*models.Transfer) bool {
	return func(t *models.Transfer) bool {
		if t.RecipientID != nil {
			return *t.RecipientID == userID
		}
		return r.s.affiliated(userID, *t.DepartmentID)
	}
}

func (r *fakeTransfersRepo) PendingIncoming(_ context.Context, userID int64) ([]models.Transfer, error) {
	return r.pending(r.incoming(userID)), nil
}

func (r *fakeTransfersRepo) PendingOutgoing(_ context.Context, userID int64) ([]models.Transfer, error) {
	return r.pending(func(t *models.Transfer) bool { return t.SenderID == userID }), nil
}

func (r *fakeTransfersRepo) CountPendingIncoming(_ context.Context, userID int64) (int, error) {
	return len(r.pending(r.incoming(userID))), nil
}

func (r *fakeTransfersRepo) CountPendingOutgoing(_ context.Context, userID int64) (int, error) {
	return len(r.pending(func(t *models.Transfer) bool { return t.SenderID == userID })), nil
}

func (r *fakeTransfersRepo) ReportRows(context.Context) ([]models.ActivityReportRow, error) {
	var out []models.ActivityReportRow
	for _, t := range r.s.transfers {
		to := ""
		if t.RecipientID != nil {
			to = r.s.users[*t.RecipientID].FullName
		} else {
			to = r.s.departments[*t.DepartmentID].Name
		}
		out = append(out, models.ActivityReportRow{
			Kind:      models.ReportKindTransfer,
			FileName:  r.s.files[t.FileID].Name,
			FromName:  r.s.users[t.SenderID].FullName,
			ToName:    to,
			Status:    string(t.Status),
			CreatedAt: t.SentAt,
		})
	}
	return out, nil
}

// --- access requests ---

type fakeRequestsRepo struct{ s *store }

func (r *fakeRequestsRepo) Create(_ context.Context, ar *models.AccessRequest) error {
	ar.ID = r.s.id()
	ar.Status = models.RequestPending
	ar.RequestedAt = r.s.now
	cp := *ar
	r.s.requests[ar.ID] = &cp
	return nil
}

func (r *fakeRequestsRepo) GetByID(_ context.Context, id int64) (*models.AccessRequest, error) {
	ar, ok := r.s.requests[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *ar
	cp.FileName = r.s.files[ar.FileID].Name
	return &cp, nil
}

func (r *fakeRequestsRepo) HasPending(_ context.Context, fileID, requesterID int64) (bool, error) {
	for _, ar := range r.s.requests {
		if ar.FileID == fileID && ar.RequesterID == requesterID && ar.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestsRepo) Resolve(_ context.Context, id int64, status models.RequestStatus) (bool, error) {
	if r.s.beforeResolve != nil {
		r.s.beforeResolve()
	}
	ar, ok := r.s.requests[id]
	if !ok || ar.Status != models.RequestPending {
		return false, nil
	}
	ar.Status = status
	return true, nil
}

func (r *fakeRequestsRepo) pending(match func(*models.AccessRequest) bool) []models.AccessRequest {
	var out []models.AccessRequest
	for _, ar := range r.s.requests {
		if ar.Status == models.RequestPending && match(ar) {
			out = append(out, *ar)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeRequestsRepo) PendingForOwner(_ context.Context, ownerID int64) ([]models.AccessRequest, error) {
	return r.pending(func(ar *models.AccessRequest) bool { return ar.OwnerID == ownerID }), nil
}

func (r *fakeRequestsRepo) PendingForRequester(_ context.Context, requesterID int64) ([]models.AccessRequest, error) {
	return r.pending(func(ar *models.AccessRequest) bool { return ar.RequesterID == requesterID }), nil
}

func (r *fakeRequestsRepo) CountPending(context.Context) (int, error) {
	return len(r.pending(func(*models.AccessRequest) bool { return true })), nil
}

func (r *fakeRequestsRepo) ReportRows(context.Context) ([]models.ActivityReportRow, error) {
	var out []models.ActivityReportRow
	for _, ar := range r.s.requests {
		out = append(out, models.ActivityReportRow{
			Kind:      models.ReportKindAccessRequest,
			FileName:  r.s.files[ar.FileID].Name,
			FromName:  r.s.users[ar.RequesterID].FullName,
			ToName:    r.s.users[ar.OwnerID].FullName,
			Status:    string(ar.Status),
			CreatedAt: ar.RequestedAt,
		})
	}
	return out, nil
}

// --- document types ---

type fakeDocTypesRepo struct{ s *store }

func (r *fakeDocTypesRepo) List(context.Context) ([]models.DocumentType, error) {
	return r.s.docTypes, nil
}

func (r *fakeDocTypesRepo) GetByName(_ context.Context, name string) (*models.DocumentType, error) {
	for _, dt := range r.s.docTypes {
		if strings.EqualFold(dt.Name, name) {
			cp := dt
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeDocTypesRepo) FieldsByTypeName(_ context.Context, name string) ([]models.FieldDef, error) {
	if err := r.s.fail("doctypes.FieldsByTypeName"); err != nil {
		return nil, err
	}
	return r.s.fields[strings.ToLower(name)], nil
}

// --- activity and notifications ---

type fakeActivityRepo struct{ s *store }

func (r *fakeActivityRepo) Log(_ context.Context, a *models.Activity) error {
	if err := r.s.fail("activity.Log"); err != nil {
		return err
	}
	a.ID = r.s.id()
	a.CreatedAt = r.s.now
	r.s.activity = append(r.s.activity, *a)
	return nil
}

func (r *fakeActivityRepo) ListForUser(_ context.Context, userID int64, limit int) ([]models.Activity, error) {
	var out []models.Activity
	for i := len(r.s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.activity[i].UserID == userID {
			out = append(out, r.s.activity[i])
		}
	}
	return out, nil
}

type fakeNotificationsRepo struct{ s *store }

func (r *fakeNotificationsRepo) Create(_ context.Context, n *models.Notification) error {
	n.ID = r.s.id()
	n.Status = models.NotificationPending
	n.CreatedAt = r.s.now
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *fakeNotificationsRepo) ListForUser(_ context.Context, userID int64, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(r.s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.notifications[i].UserID == userID {
			out = append(out, r.s.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationsRepo) MarkProcessed(_ context.Context, userID, fileID int64, typ models.NotificationType) error {
	for i := range r.s.notifications {
		n := &r.s.notifications[i]
		if n.UserID == userID && n.FileID != nil && *n.FileID == fileID && n.Type == typ {
			n.Status = models.NotificationProcessed
		}
	}
	return nil
}

// --- object storage ---

type fakeStorage struct {
	putErr error
	getErr error
	gotKey string
}

func (f *fakeStorage) PresignPut(_ context.Context, userID int64) (string, string, error) {
	if f.putErr != nil {
		return "", "", f.putErr
	}
	return "users/key", "https://s3.local/put", nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	f.gotKey = key
	return "https://s3.local/get/" + key, nil
}

// --- fixture ---

// campus is shared by the service tests: Registrar (1) with Records (11),
// Engineering (2) with Labs (21).
//
//	alice (1)  registrar, records
//	bob   (2)  registrar
//	carol (3)  engineering
//	admin (9)  admin, no affiliation
type campus struct {
	s *store
	m *fakeRepoManager

	alice, bob, carol, admin *models.Identity
}

func newCampus() *campus {
	s := newStore()
	s.addDepartment(1, "Registrar", models.DepartmentOffice, nil)
	s.addDepartment(11, "Records", models.DepartmentSub, ptr(1))
	s.addDepartment(2, "Engineering", models.DepartmentCollege, nil)
	s.addDepartment(21, "Labs", models.DepartmentSub, ptr(2))

	c := &campus{s: s, m: &fakeRepoManager{s: s}}
	c.alice = s.addUser(1, "Alice", models.RoleClient, models.Affiliation{DepartmentID: 1, SubDepartmentID: ptr(11)})
	c.bob = s.addUser(2, "Bob", models.RoleClient, models.Affiliation{DepartmentID: 1})
	c.carol = s.addUser(3, "Carol", models.RoleClient, models.Affiliation{DepartmentID: 2})
	c.admin = s.addUser(9, "Admin", models.RoleAdmin)

	s.docTypes = []models.DocumentType{{ID: 1, Name: "Memo"}, {ID: 2, Name: "Transcript"}}
	s.fields["memo"] = []models.FieldDef{
		{Name: "subject", Label: "Subject", Type: models.FieldText, Required: true},
		{Name: "date_issued", Label: "Date Issued", Type: models.FieldDate},
	}
	return c
}
