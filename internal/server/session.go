package server

import (
	"context"
	"net/url"
	"strings"
	"time"

	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie carries the signed session token.
const SessionCookie = "yatube_session"

const loginPath = "/auth/login/"

// Session resolves the current user from the session cookie or a Bearer
// header. It never rejects a request: an invalid or revoked token simply
// leaves the visitor anonymous.
func (s *Server) Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, fromCookie := sessionToken(c)
		if raw == "" {
			return c.Next()
		}

		claims, err := s.authService.ParseToken(c.UserContext(), raw)
		if err != nil {
			if fromCookie {
				s.clearSessionCookie(c)
			}
			return c.Next()
		}
		userID, _ := claims.UserID()
		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			if !models.IsNotFound(err) {
				middleware.Logger.WarnContext(c.UserContext(), "session user lookup failed", "error", err)
			}
			return c.Next()
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.Locals("claims", claims)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID))
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx) (token string, fromCookie bool) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], false
		}
	}
	return c.Cookies(SessionCookie), true
}

// LoginRequired redirects anonymous visitors to the login page, keeping
// the requested URL in next.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect(loginURL(c.OriginalURL()), fiber.StatusFound)
		}
		return c.Next()
	}
}

// currentUser returns the signed-in user, or nil for anonymous visitors.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func currentClaims(c *fiber.Ctx) *service.Claims {
	claims, _ := c.Locals("claims").(*service.Claims)
	return claims
}

// loginURL keeps slashes of next readable, e.g. /auth/login/?next=/create/.
func loginURL(next string) string {
	return loginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// safeNext accepts only same-site relative paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(service.TokenTTL),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// signIn issues a token for user and stores it in the session cookie.
func (s *Server) signIn(c *fiber.Ctx, user *models.User) (string, error) {
	token, err := s.authService.IssueToken(user)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	s.setSessionCookie(c, token)
	return token, nil
}

// PrimaryCookie asks for reads from the primary database. It is set after
// a write so the redirect target shows the change before replicas catch up.
const PrimaryCookie = "yatube_primary"

const primaryPinTTL = 10 * time.Second

// ReadYourWrites routes the reads of pinned visitors to the primary.
func (s *Server) ReadYourWrites() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies(PrimaryCookie) != "" {
			c.SetUserContext(database.WithPrimary(c.UserContext()))
		}
		return c.Next()
	}
}

func (s *Server) pinPrimary(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     PrimaryCookie,
		Value:    "1",
		Path:     "/",
		Expires:  time.Now().Add(primaryPinTTL),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
