// Package services contains the archive's business operations. Each service
// holds the database handle and a repository manager; multi-row mutations
// run in one transaction through dbx.WithTx.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/dbx"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docarchive/internal/server/visibility"
)

const maxNameLength = 255

// FeedLimit is the number of notifications or activity rows a poll returns.
const FeedLimit = 20

func requireAdmin(identity *models.Identity) error {
	if identity == nil || !identity.IsAdmin() {
		return common.ErrorAccessDenied
	}
	return nil
}

func newResolver(db dbx.DBTX, m repomanager.RepositoryManager) *visibility.Resolver {
	return visibility.NewResolver(m.Files(db), m.Departments(db))
}

// cleanName trims name and checks it is non-empty and short enough.
func cleanName(what, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: %s is required", common.ErrorValidation, what)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: %s must be at most %d characters", common.ErrorValidation, what, maxNameLength)
	}
	return name, nil
}

func logActivity(ctx context.Context, tx dbx.DBTX, m repomanager.RepositoryManager, userID int64, fileID *int64, action, message string) error {
	return m.Activity(tx).Log(ctx, &models.Activity{UserID: userID, FileID: fileID, Action: action, Message: message})
}
