package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/middleware"
	"bookvault/internal/services"
)

// EpisodeHandler handles HTTP requests for the audio episodes of a book.
type EpisodeHandler struct {
	episodeService *services.EpisodeService
	guards         Guards
}

func NewEpisodeHandler(episodeService *services.EpisodeService, guards Guards) *EpisodeHandler {
	return &EpisodeHandler{episodeService: episodeService, guards: guards}
}

func (h *EpisodeHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/books/:bookId/episodes", h.guards.Auth)

	r.Post("/", h.guards.Staff, h.HandleAdd)
	r.Get("/", h.HandleList)
	r.Put("/:episodeId/like", h.HandleToggleLike)
	r.Delete("/", h.guards.Staff, h.HandleDeleteMany)
	r.Delete("/:episodeId", h.guards.Staff, h.HandleDelete)
}

type episodeRequest struct {
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	EpisodeNumber int    `json:"episodeNumber" form:"episodeNumber"`
	Duration      string `json:"duration" form:"duration"`
}

func (h *EpisodeHandler) HandleAdd(c *fiber.Ctx) error {
	var req episodeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	audio, err := formFile(c, "audio")
	if err != nil {
		return err
	}
	episode, err := h.episodeService.Add(c.UserContext(), c.Params("bookId"), services.EpisodeInput{
		Title:         req.Title,
		Description:   req.Description,
		EpisodeNumber: req.EpisodeNumber,
		Duration:      req.Duration,
	}, audio)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Episode added successfully", fiber.Map{"episode": episode})
}

func (h *EpisodeHandler) HandleList(c *fiber.Ctx) error {
	episodes, err := h.episodeService.ListByBook(c.UserContext(), c.Params("bookId"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"episodes": episodes})
}

func (h *EpisodeHandler) HandleToggleLike(c *fiber.Ctx) error {
	liked, count, err := h.episodeService.ToggleLike(c.UserContext(), c.Params("bookId"), c.Params("episodeId"), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	message := "Episode unliked"
	if liked {
		message = "Episode liked"
	}
	return ok(c, fiber.StatusOK, message, fiber.Map{"liked": liked, "likes": count})
}

func (h *EpisodeHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.episodeService.Delete(c.UserContext(), c.Params("bookId"), c.Params("episodeId")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Episode deleted", nil)
}

func (h *EpisodeHandler) HandleDeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	n, err := h.episodeService.DeleteMany(c.UserContext(), c.Params("bookId"), req.IDs)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Episodes deleted", fiber.Map{"deletedCount": n})
}
