package visibility

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/docarchive/internal/server/models"
)

// Apply keeps the entries matching every filter. The input is not modified.
func Apply(entries []models.AnnotatedFile, userID int64, filters Filters) []models.AnnotatedFile {
	result := make([]models.AnnotatedFile, 0, len(entries))
	for _, e := range entries {
		if matches(&e.File, userID, filters) {
			result = append(result, e)
		}
	}
	return result
}

func matches(f *models.File, userID int64, filters Filters) bool {
	if filters.DocumentType != "" && !strings.EqualFold(f.DocumentType, filters.DocumentType) {
		return false
	}

	switch filters.Direction {
	case DirectionUploadedByMe:
		if f.UploaderID != userID {
			return false
		}
	case DirectionReceived:
		if f.UploaderID == userID {
			return false
		}
	}

	switch filters.CopyKind {
	case models.CopyKindHardcopy, models.CopyKindSoftcopy:
		if f.CopyKind() != filters.CopyKind {
			return false
		}
	}

	switch filters.SubDepartment.Mode {
	case SubDepartmentDepartmentWide:
		if f.SubDepartmentID != nil {
			return false
		}
	case SubDepartmentSpecific:
		if f.SubDepartmentID == nil || *f.SubDepartmentID != filters.SubDepartment.ID {
			return false
		}
	}

	if filters.NameContains != "" &&
		!strings.Contains(strings.ToLower(f.Name), strings.ToLower(filters.NameContains)) {
		return false
	}
	return true
}

// Sort orders entries newest first, higher id first on equal upload times.
func Sort(entries []models.AnnotatedFile) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].File, entries[j].File
		if !a.UploadedAt.Equal(b.UploadedAt) {
			return a.UploadedAt.After(b.UploadedAt)
		}
		return a.ID > b.ID
	})
}
