// Package httpapi exposes the archive as a JSON API over fiber.
package httpapi

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/dmitrijs2005/docarchive/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address        string
	app            *fiber.App
	services       Services
	logger         logging.Logger
	jwtSecret      []byte
	requestTimeout time.Duration
	validate       *validator.Validate
}

func NewHTTPServer(address string, l logging.Logger, svc Services, secretKey string, requestTimeout time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:        address,
		services:       svc,
		logger:         l.With("module", "http_server"),
		jwtSecret:      []byte(secretKey),
		requestTimeout: requestTimeout,
		validate:       newValidator(),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}

func (s *HTTPServer) routes() {
	s.app.Use(s.requestContext)
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/", s.authenticate)

	api.Get("/files", s.listFiles)
	api.Post("/files", s.registerUpload)
	api.Post("/files/:id/action", s.fileAction)
	api.Get("/files/:id/download", s.downloadFile)
	api.Post("/files/:id/request-access", s.requestAccess)

	api.Get("/departments", s.myDepartments)
	api.Get("/departments/:id/sub-departments", s.subDepartments)
	api.Get("/departments/:id/hardcopies", s.hardcopies)

	api.Get("/transfers", s.pendingTransfers)
	api.Post("/transfers", s.sendTransfer)
	api.Post("/transfers/:id/:decision", s.processTransfer)

	api.Get("/access-requests", s.pendingAccessRequests)
	api.Post("/access-requests/:id/:decision", s.processAccessRequest)

	api.Get("/document-types", s.documentTypes)
	api.Get("/document-types/:name/fields", s.documentTypeFields)

	api.Get("/notifications", s.notifications)
	api.Get("/activity", s.activity)
	api.Get("/reports/me", s.userReport)

	admin := api.Group("/admin", s.requireAdmin)
	admin.Get("/users", s.listUsers)
	admin.Post("/users", s.createUser)
	admin.Put("/users/:id", s.updateUser)
	admin.Delete("/users/:id", s.deleteUser)
	admin.Get("/departments", s.listDepartments)
	admin.Post("/departments", s.createDepartment)
	admin.Put("/departments/:id", s.updateDepartment)
	admin.Delete("/departments/:id", s.deleteDepartment)
	admin.Post("/departments/:id/sub-departments", s.createSubDepartment)
	admin.Get("/stats", s.adminStats)
	admin.Get("/report", s.activityReport)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
