package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/accessrequests"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/activity"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/departments"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/doctypes"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/files"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Departments(db dbx.DBTX) departments.Repository
	Files(db dbx.DBTX) files.Repository
	Transfers(db dbx.DBTX) transfers.Repository
	AccessRequests(db dbx.DBTX) accessrequests.Repository
	DocumentTypes(db dbx.DBTX) doctypes.Repository
	Activity(db dbx.DBTX) activity.Repository
	Notifications(db dbx.DBTX) notifications.Repository
}
