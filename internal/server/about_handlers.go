package server

import "github.com/gofiber/fiber/v2"

// AboutAuthor handles GET /about/author/
func (s *Server) AboutAuthor(c *fiber.Ctx) error {
	return s.page(c, fiber.StatusOK, "about/author.html", nil)
}

// AboutTech handles GET /about/tech/
func (s *Server) AboutTech(c *fiber.Ctx) error {
	return s.page(c, fiber.StatusOK, "about/tech.html", nil)
}
