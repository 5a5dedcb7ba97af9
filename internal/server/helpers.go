package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/render"

	"github.com/gofiber/fiber/v2"
)

// errNotFound makes a view answer with the 404 page.
var errNotFound = models.NewNotFoundError("Page", "")

// page renders name with the per-request context every template expects.
func (s *Server) page(c *fiber.Ctx, status int, name string, ctx render.Context) error {
	if ctx == nil {
		ctx = render.Context{}
	}
	// Untyped nil keeps {% if user %} false for anonymous visitors.
	if user := currentUser(c); user != nil {
		ctx["user"] = user
	} else {
		ctx["user"] = nil
	}
	ctx["request_path"] = c.Path()

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, name, ctx); err != nil {
		return err
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) notFound(c *fiber.Ctx) error {
	return s.page(c, fiber.StatusNotFound, "core/404.html", render.Context{"path": c.Path()})
}

// parsePostID reads the id route parameter. Anything but a positive
// integer is a missing page.
func parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errNotFound
	}
	return uint(id), nil
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// errorHandler turns errors returned by views into responses: NOT_FOUND
// and unmatched routes get the 404 page, JSON routes get ErrorResponse.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	} else {
		status = models.StatusFor(err)
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	if isAPI(c) {
		if fe != nil {
			return models.RespondWithError(c, status, errors.New(fe.Message))
		}
		return models.RespondWithError(c, status, err)
	}

	if status == fiber.StatusNotFound {
		if renderErr := s.notFound(c); renderErr == nil {
			return nil
		}
	}
	c.Status(status)
	c.Type("txt", "utf-8")
	return c.SendString(http.StatusText(status))
}

// errorMessage extracts the user-facing message of an AppError.
func errorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// formValues adapts the submitted body for forms.Bind.
func formValues(c *fiber.Ctx) forms.Getter {
	return func(name string) string {
		return c.FormValue(name)
	}
}
