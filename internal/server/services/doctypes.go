package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/logging"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/repositories/repomanager"
)

// FieldCache stores field schemas by normalized type name. A miss is
// reported as ok=false with a nil error.
type FieldCache interface {
	Get(ctx context.Context, typeName string) (fields []models.FieldDef, ok bool, err error)
	Set(ctx context.Context, typeName string, fields []models.FieldDef) error
}

type DocumentTypeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       FieldCache
	logger      logging.Logger
}

// NewDocumentTypeService builds the service; cache may be nil.
func NewDocumentTypeService(db *sql.DB, m repomanager.RepositoryManager, cache FieldCache, logger logging.Logger) *DocumentTypeService {
	return &DocumentTypeService{db: db, repomanager: m, cache: cache, logger: logger.With("module", "doctypes")}
}

func (s *DocumentTypeService) List(ctx context.Context) ([]models.DocumentType, error) {
	types, err := s.repomanager.DocumentTypes(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []models.DocumentType{}
	}
	return types, nil
}

// Fields returns the ordered field schema of the named type. Unknown types
// yield an empty list. Cache failures fall back to the database.
func (s *DocumentTypeService) Fields(ctx context.Context, typeName string) ([]models.FieldDef, error) {
	key := strings.ToLower(strings.TrimSpace(typeName))
	if key == "" {
		return []models.FieldDef{}, nil
	}

	if s.cache != nil {
		fields, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn(ctx, "field cache read failed", "type", key, "error", err)
		} else if ok {
			return fields, nil
		}
	}

	fields, err := s.repomanager.DocumentTypes(s.db).FieldsByTypeName(ctx, key)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = []models.FieldDef{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, fields); err != nil {
			s.logger.Warn(ctx, "field cache write failed", "type", key, "error", err)
		}
	}
	return fields, nil
}

// ValidateMetadata checks metadata against a field schema: required fields
// must be present and date fields must use the YYYY-MM-DD layout. Keys
// outside the schema are kept as free-form metadata.
func ValidateMetadata(fields []models.FieldDef, metadata map[string]string) error {
	for _, f := range fields {
		value := strings.TrimSpace(metadata[f.Name])
		if value == "" {
			if f.Required {
				return fmt.Errorf("%w: %s is required", common.ErrorValidation, f.Label)
			}
			continue
		}
		if f.Type == models.FieldDate {
			if _, err := time.Parse(common.DateLayout, value); err != nil {
				return fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", common.ErrorValidation, f.Label)
			}
		}
	}
	return nil
}
