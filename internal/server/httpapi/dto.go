package httpapi

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type uploadRequest struct {
	Name              string            `json:"name" validate:"required,max=255"`
	DocumentType      string            `json:"document_type" validate:"max=255"`
	DepartmentID      int64             `json:"department_id" validate:"required,gt=0"`
	SubDepartmentID   *int64            `json:"sub_department_id" validate:"omitempty,gt=0"`
	HardCopyAvailable bool              `json:"hard_copy_available"`
	Softcopy          bool              `json:"softcopy"`
	Size              int64             `json:"size" validate:"gte=0"`
	Metadata          map[string]string `json:"metadata"`
}

type fileActionRequest struct {
	Action  string `json:"action" validate:"required,oneof=rename delete make_copy"`
	NewName string `json:"new_name" validate:"max=255"`
}

type transferRequest struct {
	FileID       int64  `json:"file_id" validate:"required,gt=0"`
	RecipientID  *int64 `json:"recipient_id" validate:"omitempty,gt=0"`
	DepartmentID *int64 `json:"department_id" validate:"omitempty,gt=0"`
}

type userRequest struct {
	Username     string               `json:"username" validate:"required,max=255"`
	FullName     string               `json:"full_name" validate:"required,max=255"`
	Role         models.Role          `json:"role" validate:"required,oneof=admin client"`
	Position     string               `json:"position" validate:"max=255"`
	Affiliations []models.Affiliation `json:"affiliations" validate:"dive"`
}

type departmentRequest struct {
	Name string                `json:"name" validate:"required,max=255"`
	Type models.DepartmentType `json:"type" validate:"omitempty,oneof=college office sub_department"`
}

// bind decodes the JSON body into dst and validates it.
func (s *HTTPServer) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	if err := s.validate.Struct(dst); err != nil {
		return invalid(err)
	}
	return nil
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrorValidation, name)
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrorValidation, name)
	}
	return id, nil
}
