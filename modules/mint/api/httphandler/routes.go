package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/api")

	r.Post("/mint", h.PostMint)
	r.Get("/mints/check", h.GetMintCheck)
	r.Get("/mints/count", h.GetMintCount)
	r.Get("/events/:id", h.GetEvent)
	return nil
}
