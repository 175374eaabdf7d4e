package httpapi

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/dmitrijs2005/docarchive/internal/server/services"
	"github.com/dmitrijs2005/docarchive/internal/server/visibility"
	"github.com/gofiber/fiber/v2"
)

// listFiles serves GET /files. Query parameters: scope (personal,
// department, all), department_id, document_type, direction, copy_kind,
// sub_department (any, department-wide or an id) and q.
func (s *HTTPServer) listFiles(c *fiber.Ctx) error {
	departmentID, err := queryID(c, "department_id")
	if err != nil {
		return err
	}
	scope, err := visibility.ParseScope(c.Query("scope"), departmentID)
	if err != nil {
		return err
	}
	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	files, err := s.services.Files.List(c.UserContext(), identityFrom(c), scope, filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"files": nonNil(files)})
}

func parseFilters(c *fiber.Ctx) (visibility.Filters, error) {
	filters := visibility.Filters{
		DocumentType: c.Query("document_type"),
		Direction:    visibility.Direction(c.Query("direction")),
		CopyKind:     models.CopyKind(c.Query("copy_kind")),
		NameContains: c.Query("q"),
	}

	switch raw := c.Query("sub_department"); raw {
	case "":
	case string(visibility.SubDepartmentAny), string(visibility.SubDepartmentDepartmentWide):
		filters.SubDepartment.Mode = visibility.SubDepartmentMode(raw)
	default:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filters, fmt.Errorf("%w: invalid sub_department %q", common.ErrorValidation, raw)
		}
		filters.SubDepartment = visibility.SubDepartmentFilter{Mode: visibility.SubDepartmentSpecific, ID: id}
	}
	return filters, nil
}

func (s *HTTPServer) registerUpload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	ticket, err := s.services.Files.RegisterUpload(c.UserContext(), identityFrom(c), services.UploadInput{
		Name:              req.Name,
		DocumentType:      req.DocumentType,
		DepartmentID:      req.DepartmentID,
		SubDepartmentID:   req.SubDepartmentID,
		HardCopyAvailable: req.HardCopyAvailable,
		Softcopy:          req.Softcopy,
		Size:              req.Size,
		Metadata:          req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "File uploaded successfully",
		"file":       ticket.File,
		"upload_url": ticket.UploadURL,
	})
}

func (s *HTTPServer) fileAction(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req fileActionRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	res, err := s.services.Files.Act(c.UserContext(), identityFrom(c), id, services.FileAction{Action: req.Action, NewName: req.NewName})
	if err != nil {
		return err
	}
	if res.File != nil {
		return c.JSON(fiber.Map{"success": true, "message": res.Message, "file": res.File})
	}
	return c.JSON(actionResponse{Success: true, Message: res.Message})
}

func (s *HTTPServer) downloadFile(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	url, err := s.services.Files.DownloadURL(c.UserContext(), identityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "url": url})
}

func (s *HTTPServer) hardcopies(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	files, err := s.services.Files.Hardcopies(c.UserContext(), identityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"files": nonNil(files)})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
