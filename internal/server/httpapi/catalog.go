package httpapi

import (
	"bytes"

	"github.com/dmitrijs2005/docarchive/internal/server/reports"
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) myDepartments(c *fiber.Ctx) error {
	affiliations, err := s.services.Departments.Mine(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"departments": nonNil(affiliations)})
}

func (s *HTTPServer) subDepartments(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	subs, err := s.services.Departments.SubDepartments(c.UserContext(), identityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sub_departments": nonNil(subs)})
}

func (s *HTTPServer) documentTypes(c *fiber.Ctx) error {
	types, err := s.services.DocumentTypes.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"document_types": nonNil(types)})
}

func (s *HTTPServer) documentTypeFields(c *fiber.Ctx) error {
	fields, err := s.services.DocumentTypes.Fields(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "fields": nonNil(fields)})
}

func (s *HTTPServer) notifications(c *fiber.Ctx) error {
	items, err := s.services.Feed.Notifications(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notifications": nonNil(items)})
}

func (s *HTTPServer) activity(c *fiber.Ctx) error {
	items, err := s.services.Feed.Activity(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activity": nonNil(items)})
}

func (s *HTTPServer) userReport(c *fiber.Ctx) error {
	report, err := s.services.Reports.UserReport(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	if c.Query("format") != "xlsx" {
		return c.JSON(report)
	}

	var buf bytes.Buffer
	if err := reports.WriteUserReport(&buf, report); err != nil {
		return err
	}
	return sendWorkbook(c, "my-report.xlsx", buf.Bytes())
}

func sendWorkbook(c *fiber.Ctx, filename string, data []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, reports.ContentType)
	return c.Send(data)
}
