package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/common"
	"github.com/dmitrijs2005/docarchive/internal/server/auth"
	"github.com/dmitrijs2005/docarchive/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	identityKey  = "identity"
	requestIDKey = "request_id"
)

// requestContext tags the request with an id, bounds it with the request
// timeout and logs it once served.
func (s *HTTPServer) requestContext(c *fiber.Ctx) error {
	id := c.Get(common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(common.RequestIDHeaderName, id)
	c.Locals(requestIDKey, id)

	ctx := context.Background()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	c.SetUserContext(ctx)

	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(ctx, "request",
		"request_id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
	)
	return nil
}

// authenticate resolves the bearer token into the caller identity.
func (s *HTTPServer) authenticate(c *fiber.Ctx) error {
	header := c.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return common.ErrorUnauthorized
	}

	claims, err := auth.ParseToken(strings.TrimSpace(token), s.jwtSecret)
	if err != nil {
		return common.ErrorUnauthorized
	}

	identity, err := s.services.Users.LoadIdentity(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

func (s *HTTPServer) requireAdmin(c *fiber.Ctx) error {
	if !identityFrom(c).IsAdmin() {
		return common.ErrorAccessDenied
	}
	return c.Next()
}

func identityFrom(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(identityKey).(*models.Identity)
	if identity == nil {
		return &models.Identity{}
	}
	return identity
}
