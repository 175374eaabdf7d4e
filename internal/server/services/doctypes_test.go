package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/logging"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFieldCache struct {
	data   map[string][]models.FieldDef
	getErr error
	setErr error
	sets   int
}

func (f *fakeFieldCache) Get(_ context.Context, typeName string) ([]models.FieldDef, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	fields, ok := f.data[typeName]
	return fields, ok, nil
}

func (f *fakeFieldCache) Set(_ context.Context, typeName string, fields []models.FieldDef) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	if f.data == nil {
		f.data = map[string][]models.FieldDef{}
	}
	f.data[typeName] = fields
	return nil
}

func newDocTypeSvc(t *testing.T, c *campus, cache FieldCache) (*DocumentTypeService, *bytes.Buffer) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	var buf bytes.Buffer
	return NewDocumentTypeService(db, c.m, cache, logging.New(logging.FormatJSON, &buf)), &buf
}

func TestDocumentTypeService_List(t *testing.T) {
	c := newCampus()
	svc, _ := newDocTypeSvc(t, c, nil)

	types, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.s.docTypes, types)

	c.s.docTypes = nil
	types, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, types)
	assert.Empty(t, types)
}

func TestDocumentTypeService_Fields_FillsCache(t *testing.T) {
	c := newCampus()
	cache := &fakeFieldCache{}
	svc, _ := newDocTypeSvc(t, c, cache)
	ctx := context.Background()

	fields, err := svc.Fields(ctx, " MEMO ")
	require.NoError(t, err)
	assert.Equal(t, c.s.fields["memo"], fields)
	assert.Equal(t, c.s.fields["memo"], cache.data["memo"])

	// served from cache once the database fails
	c.s.failOn["doctypes.FieldsByTypeName"] = errors.New("db down")
	fields, err = svc.Fields(ctx, "Memo")
	require.NoError(t, err)
	assert.Len(t, fields, 2)
	assert.Equal(t, 1, cache.sets)
}

func TestDocumentTypeService_Fields_CacheFailureFallsBack(t *testing.T) {
	c := newCampus()
	cache := &fakeFieldCache{getErr: errors.New("redis gone"), setErr: errors.New("redis gone")}
	svc, logs := newDocTypeSvc(t, c, cache)

	fields, err := svc.Fields(context.Background(), "memo")
	require.NoError(t, err)
	assert.Len(t, fields, 2)
	assert.Contains(t, logs.String(), "field cache read failed")
	assert.Contains(t, logs.String(), "field cache write failed")
	assert.Contains(t, logs.String(), `"module":"doctypes"`)
}

func TestDocumentTypeService_Fields_UnknownAndEmpty(t *testing.T) {
	c := newCampus()
	svc, _ := newDocTypeSvc(t, c, nil)

	fields, err := svc.Fields(context.Background(), "Invoice")
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)

	fields, err = svc.Fields(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, fields)

	c.s.failOn["doctypes.FieldsByTypeName"] = errors.New("db down")
	_, err = svc.Fields(context.Background(), "memo")
	assert.ErrorContains(t, err, "db down")
}

func TestValidateMetadata(t *testing.T) {
	fields := []models.FieldDef{
		{Name: "subject", Label: "Subject", Type: models.FieldText, Required: true},
		{Name: "issued", Label: "Issued", Type: models.FieldDate},
		{Name: "due", Label: "Due", Type: models.FieldDate, Required: true},
	}

	tests := []struct {
		name     string
		metadata map[string]string
		wantErr  bool
	}{
		{"complete", map[string]string{"subject": "a", "issued": "2024-01-31", "due": "2024-02-01"}, false},
		{"optional date omitted", map[string]string{"subject": "a", "due": "2024-02-01"}, false},
		{"extra keys kept", map[string]string{"subject": "a", "due": "2024-02-01", "note": "x"}, false},
		{"required blank", map[string]string{"subject": "  ", "due": "2024-02-01"}, true},
		{"required date missing", map[string]string{"subject": "a"}, true},
		{"bad date", map[string]string{"subject": "a", "due": "2024-13-01"}, true},
		{"nil metadata", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMetadata(fields, tt.metadata)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, ValidateMetadata(nil, nil))
}
