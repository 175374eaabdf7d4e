package httpapi

import (
	"bytes"

	"github.com/dmitrijs2005/docarchive/internal/server/reports"
	"github.com/dmitrijs2005/docarchive/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func (r userRequest) input() services.UserInput {
	return services.UserInput{
		Username:     r.Username,
		FullName:     r.FullName,
		Role:         r.Role,
		Position:     r.Position,
		Affiliations: r.Affiliations,
	}
}

func (s *HTTPServer) listUsers(c *fiber.Ctx) error {
	users, err := s.services.Users.List(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": nonNil(users)})
}

func (s *HTTPServer) createUser(c *fiber.Ctx) error {
	var req userRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	user, err := s.services.Users.Create(c.UserContext(), identityFrom(c), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "User created", "user": user})
}

func (s *HTTPServer) updateUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req userRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	user, err := s.services.Users.Update(c.UserContext(), identityFrom(c), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "User updated", "user": user})
}

func (s *HTTPServer) deleteUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Users.Delete(c.UserContext(), identityFrom(c), id); err != nil {
		return err
	}
	return c.JSON(actionResponse{Success: true, Message: "User deleted"})
}

func (s *HTTPServer) listDepartments(c *fiber.Ctx) error {
	departments, err := s.services.Departments.ListAll(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"departments": nonNil(departments)})
}

func (s *HTTPServer) createDepartment(c *fiber.Ctx) error {
	var req departmentRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	department, err := s.services.Departments.Create(c.UserContext(), identityFrom(c), req.Name, req.Type)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Department created", "department": department})
}

func (s *HTTPServer) createSubDepartment(c *fiber.Ctx) error {
	parentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req departmentRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	department, err := s.services.Departments.CreateSubDepartment(c.UserContext(), identityFrom(c), parentID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Sub-department created", "department": department})
}

func (s *HTTPServer) updateDepartment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req departmentRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	department, err := s.services.Departments.Update(c.UserContext(), identityFrom(c), id, req.Name, req.Type)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Department updated", "department": department})
}

func (s *HTTPServer) deleteDepartment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Departments.Delete(c.UserContext(), identityFrom(c), id); err != nil {
		return err
	}
	return c.JSON(actionResponse{Success: true, Message: "Department deleted"})
}

func (s *HTTPServer) adminStats(c *fiber.Ctx) error {
	stats, err := s.services.Reports.AdminStats(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (s *HTTPServer) activityReport(c *fiber.Ctx) error {
	rows, err := s.services.Reports.ActivityReport(c.UserContext(), identityFrom(c))
	if err != nil {
		return err
	}
	if c.Query("format") != "xlsx" {
		return c.JSON(fiber.Map{"rows": nonNil(rows)})
	}

	var buf bytes.Buffer
	if err := reports.WriteActivity(&buf, rows); err != nil {
		return err
	}
	return sendWorkbook(c, "activity-report.xlsx", buf.Bytes())
}
