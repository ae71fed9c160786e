package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/middleware"
	"bookvault/internal/services"
)

// CategoryHandler handles HTTP requests for book categories.
type CategoryHandler struct {
	categoryService *services.CategoryService
	guards          Guards
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService, guards Guards) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, guards: guards}
}

// RegisterRoutes registers the category routes. Listing and reading active
// categories is public.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/categories")
	staff := []fiber.Handler{h.guards.Auth, h.guards.Staff}

	r.Post("/create", append(staff, h.HandleCreate)...)
	r.Get("/search", h.guards.Auth, h.HandleSearch)
	r.Get("/deleted", append(staff, h.HandleListDeleted)...)
	r.Get("/", h.HandleListActive)
	r.Get("/:id", h.HandleGetActive)
	r.Put("/:id/status", append(staff, h.HandleSetStatus)...)
	r.Put("/:id/feature", append(staff, h.HandleSetFeatured)...)
	r.Put("/:id/updateCategory", append(staff, h.HandleUpdate)...)
	r.Patch("/:id/softDelete", append(staff, h.HandleSoftDelete)...)
	r.Patch("/:id/restore", append(staff, h.HandleRestore)...)
	r.Delete("/multi-delete", append(staff, h.HandleDeleteMany)...)
	r.Delete("/:id/delete", append(staff, h.HandleDelete)...)
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *bool   `json:"status"`
	Featured    *bool   `json:"featured"`
}

func (r categoryRequest) input() services.CategoryInput {
	return services.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Featured:    r.Featured,
	}
}

type statusRequest struct {
	Status *bool `json:"status" form:"status" validate:"required"`
}

type featuredRequest struct {
	Featured *bool `json:"featured" form:"featured" validate:"required"`
}

func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req categoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.categoryService.Create(c.UserContext(), middleware.CurrentUser(c), req.input())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Category created successfully", fiber.Map{"category": category})
}

func (h *CategoryHandler) HandleListActive(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (h *CategoryHandler) HandleGetActive(c *fiber.Ctx) error {
	category, err := h.categoryService.GetActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"category": category})
}

func (h *CategoryHandler) HandleSearch(c *fiber.Ctx) error {
	categories, err := h.categoryService.Search(c.UserContext(), c.Query("keyword"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (h *CategoryHandler) HandleListDeleted(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req categoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.categoryService.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Category updated successfully", fiber.Map{"category": category})
}

func (h *CategoryHandler) HandleSetStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.categoryService.SetStatus(c.UserContext(), c.Params("id"), *req.Status)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Category status updated", fiber.Map{"category": category})
}

func (h *CategoryHandler) HandleSetFeatured(c *fiber.Ctx) error {
	var req featuredRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	category, err := h.categoryService.SetFeatured(c.UserContext(), c.Params("id"), *req.Featured)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Category feature flag updated", fiber.Map{"category": category})
}

func (h *CategoryHandler) HandleSoftDelete(c *fiber.Ctx) error {
	if err := h.categoryService.SoftDelete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Category soft deleted", nil)
}

func (h *CategoryHandler) HandleRestore(c *fiber.Ctx) error {
	if err := h.categoryService.Restore(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Category restored", nil)
}

func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.categoryService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Category permanently deleted", nil)
}

func (h *CategoryHandler) HandleDeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	n, err := h.categoryService.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Categories permanently deleted", fiber.Map{"deletedCount": n})
}
