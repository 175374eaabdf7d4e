// Package reports renders archive reports as XLSX workbooks.
package reports

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	activitySheet = "Activity"
	summarySheet  = "Summary"
	byTypeSheet   = "By document type"
	timeLayout    = "2006-01-02 15:04:05"
)

// WriteActivity writes the admin activity report, one row per transfer or
// access request.
func WriteActivity(w io.Writer, rows []models.ActivityReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", activitySheet); err != nil {
		return err
	}

	table := [][]any{{"Kind", "File", "From", "To", "Status", "Date"}}
	for _, r := range rows {
		table = append(table, []any{r.Kind, r.FileName, r.FromName, r.ToName, r.Status, r.CreatedAt.UTC().Format(timeLayout)})
	}
	if err := writeRows(f, activitySheet, table); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteUserReport writes the totals on one sheet and the per-type split on
// another.
func WriteUserReport(w io.Writer, report *models.UserReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Metric", "Count"},
		{"Total files", report.Total},
		{"Uploaded", report.Uploaded},
		{"Received", report.Received},
		{"Hardcopy", report.Hardcopy},
		{"Softcopy", report.Softcopy},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(byTypeSheet); err != nil {
		return err
	}
	byType := [][]any{{"Document type", "Total", "Uploaded", "Received"}}
	for _, tc := range report.ByDocumentType {
		byType = append(byType, []any{tc.DocumentType, tc.Total, tc.Uploaded, tc.Received})
	}
	if err := writeRows(f, byTypeSheet, byType); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to fill %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
