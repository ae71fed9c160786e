package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/storage"
)

// FileHandler serves objects held by an in-memory store, so uploads work
// locally without a bucket.
type FileHandler struct {
	store *storage.MemoryStore
}

func NewFileHandler(store *storage.MemoryStore) *FileHandler {
	return &FileHandler{store: store}
}

func (h *FileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/files/*", h.HandleGet)
}

func (h *FileHandler) HandleGet(c *fiber.Ctx) error {
	data, contentType, found := h.store.Get(c.Params("*"))
	if !found {
		return fiber.ErrNotFound
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.Send(data)
}
