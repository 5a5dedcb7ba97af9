package server

import (
	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/render"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SignupForm handles GET /auth/signup/
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.page(c, fiber.StatusOK, "users/signup.html", render.Context{"form": forms.NewSignupForm()})
}

// Signup handles POST /auth/signup/. A new user is signed in and sent
// to the index.
func (s *Server) Signup(c *fiber.Ctx) error {
	form := forms.NewSignupForm().Bind(formValues(c))
	if form.IsValid() {
		user, err := s.authService.Signup(c.UserContext(), service.SignupInput{
			Username:  form.Username,
			Email:     form.Email,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  form.LastName,
		})
		switch {
		case err == nil:
			if _, err := s.signIn(c, user); err != nil {
				return err
			}
			return c.Redirect("/", fiber.StatusFound)
		case models.HasCode(err, models.CodeValidation):
			form.AddError("", errorMessage(err))
		default:
			return err
		}
	}
	return s.page(c, fiber.StatusOK, "users/signup.html", render.Context{"form": form})
}

// LoginForm handles GET /auth/login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.page(c, fiber.StatusOK, "users/login.html", render.Context{
		"form": forms.NewLoginForm(),
		"next": c.Query("next"),
	})
}

// Login handles POST /auth/login/
func (s *Server) Login(c *fiber.Ctx) error {
	next := c.FormValue("next", c.Query("next"))
	form := forms.NewLoginForm().Bind(formValues(c))
	if form.IsValid() {
		user, err := s.authService.Authenticate(c.UserContext(), form.Username, form.Password)
		switch {
		case err == nil:
			if _, err := s.signIn(c, user); err != nil {
				return err
			}
			return c.Redirect(safeNext(next), fiber.StatusFound)
		case models.HasCode(err, models.CodeUnauthorized):
			form.AddError("", errorMessage(err))
		default:
			return err
		}
	}
	return s.page(c, fiber.StatusOK, "users/login.html", render.Context{
		"form": form,
		"next": next,
	})
}

// Logout handles GET and POST /auth/logout/. The token is revoked until
// it would have expired.
func (s *Server) Logout(c *fiber.Ctx) error {
	if claims := currentClaims(c); claims != nil {
		if err := s.authService.Revoke(c.UserContext(), claims); err != nil {
			return err
		}
	}
	s.clearSessionCookie(c)
	c.Locals("user", nil)
	c.Locals("claims", nil)
	return s.page(c, fiber.StatusOK, "users/logged_out.html", nil)
}

type apiSignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type apiLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APISignup handles POST /api/v1/auth/signup
func (s *Server) APISignup(c *fiber.Ctx) error {
	var req apiSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.authService.Signup(c.UserContext(), service.SignupInput(req))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	token, err := s.signIn(c, user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// APILogin handles POST /api/v1/auth/login
func (s *Server) APILogin(c *fiber.Ctx) error {
	var req apiLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	token, err := s.signIn(c, user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}
