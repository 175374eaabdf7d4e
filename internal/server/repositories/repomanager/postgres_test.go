package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/accessrequests"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/activity"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/departments"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/doctypes"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/files"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/transfers"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db := newDB(t)
	m := NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &departments.PostgresRepository{}, m.Departments(db))
	assert.IsType(t, &files.PostgresRepository{}, m.Files(db))
	assert.IsType(t, &transfers.PostgresRepository{}, m.Transfers(db))
	assert.IsType(t, &accessrequests.PostgresRepository{}, m.AccessRequests(db))
	assert.IsType(t, &doctypes.PostgresRepository{}, m.DocumentTypes(db))
	assert.IsType(t, &activity.PostgresRepository{}, m.Activity(db))
	assert.IsType(t, &notifications.PostgresRepository{}, m.Notifications(db))
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}
