package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/docarchive/internal/server/visibility"
)

const (
	trendDays       = 7
	unspecifiedType = "Unspecified"
)

type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: m, now: time.Now}
}

// AdminStats collects the admin dashboard counters. Transfer counts are
// those of the calling admin.
func (s *ReportService) AdminStats(ctx context.Context, identity *models.Identity) (*models.AdminStats, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	users := s.repomanager.Users(s.db)
	files := s.repomanager.Files(s.db)
	transfers := s.repomanager.Transfers(s.db)

	var (
		stats models.AdminStats
		err   error
	)
	if stats.TotalUsers, err = users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalFiles, err = files.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.repomanager.AccessRequests(s.db).CountPending(ctx); err != nil {
		return nil, err
	}
	if stats.IncomingTransfers, err = transfers.CountPendingIncoming(ctx, identity.UserID); err != nil {
		return nil, err
	}
	if stats.OutgoingTransfers, err = transfers.CountPendingOutgoing(ctx, identity.UserID); err != nil {
		return nil, err
	}
	if stats.UsersPerDepartment, err = users.CountPerDepartment(ctx); err != nil {
		return nil, err
	}
	if stats.UsersPerDepartment == nil {
		stats.UsersPerDepartment = []models.DepartmentCount{}
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(trendDays - 1))
	daily, err := files.UploadsPerDay(ctx, since)
	if err != nil {
		return nil, err
	}
	stats.UploadTrend = fillTrend(since, daily)

	return &stats, nil
}

// fillTrend returns one entry per day starting at since, with zero for days
// without uploads.
func fillTrend(since time.Time, daily []models.DailyCount) []models.DailyCount {
	counts := make(map[string]int, len(daily))
	for _, d := range daily {
		counts[d.Day.UTC().Format(time.DateOnly)] += d.Uploads
	}
	trend := make([]models.DailyCount, trendDays)
	for i := range trend {
		day := since.AddDate(0, 0, i)
		trend[i] = models.DailyCount{Day: day, Uploads: counts[day.Format(time.DateOnly)]}
	}
	return trend
}

// ActivityReport lists every transfer and access request, newest first.
func (s *ReportService) ActivityReport(ctx context.Context, identity *models.Identity) ([]models.ActivityReportRow, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	transferRows, err := s.repomanager.Transfers(s.db).ReportRows(ctx)
	if err != nil {
		return nil, err
	}
	requestRows, err := s.repomanager.AccessRequests(s.db).ReportRows(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ActivityReportRow, 0, len(transferRows)+len(requestRows))
	rows = append(rows, transferRows...)
	rows = append(rows, requestRows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

// UserReport summarizes every file the caller can see.
func (s *ReportService) UserReport(ctx context.Context, identity *models.Identity) (*models.UserReport, error) {
	entries, err := newResolver(s.db, s.repomanager).Resolve(ctx, identity, visibility.AllAccessible(), visibility.Filters{})
	if err != nil {
		return nil, err
	}
	return buildUserReport(identity.UserID, entries), nil
}

func buildUserReport(userID int64, entries []models.AnnotatedFile) *models.UserReport {
	report := &models.UserReport{UserID: userID}
	byType := map[string]*models.TypeCount{}

	for _, e := range entries {
		name := e.File.DocumentType
		if name == "" {
			name = unspecifiedType
		}
		tc, ok := byType[name]
		if !ok {
			tc = &models.TypeCount{DocumentType: name}
			byType[name] = tc
		}

		report.Total++
		tc.Total++
		if e.File.UploaderID == userID {
			report.Uploaded++
			tc.Uploaded++
		} else {
			report.Received++
			tc.Received++
		}
		if e.File.HardCopyAvailable {
			report.Hardcopy++
		}
		if e.File.StoragePath != "" {
			report.Softcopy++
		}
	}

	report.ByDocumentType = make([]models.TypeCount, 0, len(byType))
	for _, tc := range byType {
		report.ByDocumentType = append(report.ByDocumentType, *tc)
	}
	sort.Slice(report.ByDocumentType, func(i, j int) bool {
		return report.ByDocumentType[i].DocumentType < report.ByDocumentType[j].DocumentType
	})
	return report
}
