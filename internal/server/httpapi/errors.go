package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Something went wrong, please try again"

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorHandler maps service errors onto status codes. Unexpected errors are
// logged and answered with a generic message.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	status, message := statusFor(err)

	if status == fiber.StatusInternalServerError {
		requestID, _ := c.Locals(requestIDKey).(string)
		s.logger.Error(c.UserContext(), "request failed", "request_id", requestID, "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(errorResponse{Success: false, Message: message})
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrorAccessDenied):
		return fiber.StatusForbidden, detail(err, common.ErrorAccessDenied, "Access denied")
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, detail(err, common.ErrorNotFound, "Not found")
	case errors.Is(err, common.ErrorConflict):
		return fiber.StatusConflict, detail(err, common.ErrorConflict, "Conflict")
	case errors.Is(err, common.ErrorValidation):
		return fiber.StatusBadRequest, detail(err, common.ErrorValidation, "Invalid request")
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, internalErrorMessage
	}
}

// detail strips the sentinel prefix from a wrapped error message, falling
// back when nothing specific was attached.
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	if msg == sentinel.Error() {
		return fallback
	}
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		msg = rest
	}
	if msg == "" {
		return fallback
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// invalid turns a validator failure into a validation error naming the
// first offending field.
func invalid(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, fe.Field())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", common.ErrorValidation, fe.Field(), fe.Param())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s", common.ErrorValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", common.ErrorValidation, fe.Field())
	}
}
