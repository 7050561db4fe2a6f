package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	router.Post("/api/walrus/store", h.PostStore)
	router.Get("/walrus/blobs/:blobId", h.GetBlob)
	return nil
}
