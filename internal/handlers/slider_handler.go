package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/middleware"
	"bookvault/internal/services"
)

// SliderHandler handles HTTP requests for homepage banners.
type SliderHandler struct {
	sliderService *services.SliderService
	guards        Guards
}

func NewSliderHandler(sliderService *services.SliderService, guards Guards) *SliderHandler {
	return &SliderHandler{sliderService: sliderService, guards: guards}
}

func (h *SliderHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/sliders", h.guards.Auth)
	staff := h.guards.Staff

	r.Post("/create", staff, h.HandleCreate)
	r.Get("/all", h.HandleListActive)
	r.Get("/deleted", staff, h.HandleListDeleted)
	r.Get("/search", h.HandleSearch)
	r.Patch("/:id/softDelete", staff, h.HandleSoftDelete)
	r.Patch("/:id/restore", staff, h.HandleRestore)
	r.Delete("/permanent-delete-multiple", staff, h.HandleDeleteMany)
	r.Delete("/:id/permanentDelete", staff, h.HandleDelete)
}

type sliderRequest struct {
	Title       string `json:"title" form:"title"`
	Subtitle    string `json:"subtitle" form:"subtitle"`
	Description string `json:"description" form:"description"`
	Link        string `json:"link" form:"link" validate:"omitempty,url"`
	Order       int    `json:"order" form:"order"`
	Status      *bool  `json:"status" form:"status"`
}

func (h *SliderHandler) HandleCreate(c *fiber.Ctx) error {
	var req sliderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := formFile(c, "image")
	if err != nil {
		return err
	}
	if image == nil {
		if image, err = formFile(c, "sliderImage"); err != nil {
			return err
		}
	}

	slider, err := h.sliderService.Create(c.UserContext(), middleware.CurrentUser(c), services.SliderInput{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Link:        req.Link,
		Order:       req.Order,
		Status:      req.Status,
	}, image)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Slider created successfully", fiber.Map{"slider": slider})
}

func (h *SliderHandler) HandleListActive(c *fiber.Ctx) error {
	sliders, err := h.sliderService.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"sliders": sliders})
}

func (h *SliderHandler) HandleListDeleted(c *fiber.Ctx) error {
	sliders, err := h.sliderService.ListDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"sliders": sliders})
}

func (h *SliderHandler) HandleSearch(c *fiber.Ctx) error {
	sliders, err := h.sliderService.Search(c.UserContext(), c.Query("keyword"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"sliders": sliders})
}

func (h *SliderHandler) HandleSoftDelete(c *fiber.Ctx) error {
	if err := h.sliderService.SoftDelete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Slider soft deleted", nil)
}

func (h *SliderHandler) HandleRestore(c *fiber.Ctx) error {
	if err := h.sliderService.Restore(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Slider restored", nil)
}

func (h *SliderHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.sliderService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Slider permanently deleted", nil)
}

func (h *SliderHandler) HandleDeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	n, err := h.sliderService.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sliders permanently deleted", fiber.Map{"deletedCount": n})
}
