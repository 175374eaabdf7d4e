package httpapi

import (
	"fmt"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) sendTransfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	transfer, err := s.services.Transfers.Send(c.UserContext(), identityFrom(c), req.FileID, services.TransferTarget{
		RecipientID:  req.RecipientID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "File sent successfully",
		"transfer": transfer,
	})
}

func (s *HTTPServer) processTransfer(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var accept bool
	switch c.Params("decision") {
	case "accept":
		accept = true
	case "deny":
	default:
		return fmt.Errorf("%w: decision must be accept or deny", common.ErrorValidation)
	}

	if _, err := s.services.Transfers.Process(c.UserContext(), identityFrom(c), id, accept); err != nil {
		return err
	}
	message := "Transfer denied"
	if accept {
		message = "Transfer accepted"
	}
	return c.JSON(actionResponse{Success: true, Message: message})
}

func (s *HTTPServer) pendingTransfers(c *fiber.Ctx) error {
	transfers, err := s.services.Transfers.Pending(c.UserContext(), identityFrom(c), c.Query("direction"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transfers": nonNil(transfers)})
}

func (s *HTTPServer) requestAccess(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	request, err := s.services.AccessRequests.Request(c.UserContext(), identityFrom(c), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Access requested",
		"request": request,
	})
}

func (s *HTTPServer) processAccessRequest(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var approve bool
	switch c.Params("decision") {
	case "approve":
		approve = true
	case "reject":
	default:
		return fmt.Errorf("%w: decision must be approve or reject", common.ErrorValidation)
	}

	if _, err := s.services.AccessRequests.Process(c.UserContext(), identityFrom(c), id, approve); err != nil {
		return err
	}
	message := "Request rejected"
	if approve {
		message = "Request approved"
	}
	return c.JSON(actionResponse{Success: true, Message: message})
}

func (s *HTTPServer) pendingAccessRequests(c *fiber.Ctx) error {
	requests, err := s.services.AccessRequests.Pending(c.UserContext(), identityFrom(c), c.Query("direction"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"requests": nonNil(requests)})
}
