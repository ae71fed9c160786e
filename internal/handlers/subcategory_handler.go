package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bookvault/internal/middleware"
	"bookvault/internal/services"
)

// SubCategoryHandler handles HTTP requests for sub-categories.
type SubCategoryHandler struct {
	subCategoryService *services.SubCategoryService
	guards             Guards
}

func NewSubCategoryHandler(subCategoryService *services.SubCategoryService, guards Guards) *SubCategoryHandler {
	return &SubCategoryHandler{subCategoryService: subCategoryService, guards: guards}
}

// RegisterRoutes registers the sub-category routes. All of them need a
// session and writes are staff only.
func (h *SubCategoryHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/subCategories", h.guards.Auth)
	staff := h.guards.Staff

	r.Post("/create", staff, h.HandleCreate)
	r.Get("/search", h.HandleSearch)
	r.Get("/deleted", staff, h.HandleListDeleted)
	r.Get("/all", h.HandleListActive)
	r.Put("/:id/status", staff, h.HandleSetStatus)
	r.Put("/:id/featured", staff, h.HandleSetFeatured)
	r.Put("/:id/update", staff, h.HandleUpdate)
	r.Patch("/:id/softDelete", staff, h.HandleSoftDelete)
	r.Patch("/:id/restore", staff, h.HandleRestore)
	r.Delete("/hard-multiple-delete", staff, h.HandleDeleteMany)
	r.Delete("/:id/delete", staff, h.HandleDelete)
	r.Get("/:id", h.HandleGet)
}

// subCategoryRequest is decoded from JSON or from multipart form fields.
type subCategoryRequest struct {
	Name             *string `json:"name" form:"name"`
	Description      *string `json:"description" form:"description"`
	ParentCategoryID *string `json:"parentCategoryId" form:"parentCategoryId"`
	Status           *bool   `json:"status" form:"status"`
	Featured         *bool   `json:"featured" form:"featured"`
}

func (r subCategoryRequest) input() services.SubCategoryInput {
	return services.SubCategoryInput{
		Name:             r.Name,
		Description:      r.Description,
		ParentCategoryID: r.ParentCategoryID,
		Status:           r.Status,
		Featured:         r.Featured,
	}
}

// subCategoryImage accepts the image under either field name.
func subCategoryImage(c *fiber.Ctx) (*services.Upload, error) {
	image, err := formFile(c, "image")
	if err != nil || image != nil {
		return image, err
	}
	return formFile(c, "subCategoryImage")
}

func (h *SubCategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req subCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := subCategoryImage(c)
	if err != nil {
		return err
	}
	sub, err := h.subCategoryService.Create(c.UserContext(), middleware.CurrentUser(c), req.input(), image)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Sub-category created successfully", fiber.Map{"subCategory": sub})
}

func (h *SubCategoryHandler) HandleListActive(c *fiber.Ctx) error {
	subs, err := h.subCategoryService.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"subCategories": subs})
}

func (h *SubCategoryHandler) HandleGet(c *fiber.Ctx) error {
	sub, err := h.subCategoryService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"subCategory": sub})
}

// queryBool reads an optional boolean query parameter.
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be true or false")
	}
	return &v, nil
}

func (h *SubCategoryHandler) HandleSearch(c *fiber.Ctx) error {
	status, err := queryBool(c, "status")
	if err != nil {
		return err
	}
	featured, err := queryBool(c, "featured")
	if err != nil {
		return err
	}
	page, err := h.subCategoryService.Search(c.UserContext(), services.SubCategoryQuery{
		Keyword:          c.Query("keyword"),
		ParentCategoryID: c.Query("parentCategoryId"),
		Status:           status,
		Featured:         featured,
		Page:             c.QueryInt("page", 1),
		Limit:            c.QueryInt("limit", 0),
	})
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"subCategories": page.SubCategories,
		"pagination": fiber.Map{
			"total":      page.Total,
			"page":       page.Page,
			"limit":      page.Limit,
			"totalPages": page.TotalPages,
		},
	})
}

func (h *SubCategoryHandler) HandleListDeleted(c *fiber.Ctx) error {
	subs, err := h.subCategoryService.ListDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"subCategories": subs})
}

func (h *SubCategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req subCategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	image, err := subCategoryImage(c)
	if err != nil {
		return err
	}
	sub, err := h.subCategoryService.Update(c.UserContext(), c.Params("id"), req.input(), image)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-category updated successfully", fiber.Map{"subCategory": sub})
}

func (h *SubCategoryHandler) HandleSetStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.subCategoryService.SetStatus(c.UserContext(), c.Params("id"), *req.Status)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-category status updated", fiber.Map{"subCategory": sub})
}

func (h *SubCategoryHandler) HandleSetFeatured(c *fiber.Ctx) error {
	var req featuredRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.subCategoryService.SetFeatured(c.UserContext(), c.Params("id"), *req.Featured)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-category feature flag updated", fiber.Map{"subCategory": sub})
}

func (h *SubCategoryHandler) HandleSoftDelete(c *fiber.Ctx) error {
	if err := h.subCategoryService.SoftDelete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-category soft deleted", nil)
}

func (h *SubCategoryHandler) HandleRestore(c *fiber.Ctx) error {
	if err := h.subCategoryService.Restore(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-category restored", nil)
}

func (h *SubCategoryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.subCategoryService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-category and its image deleted permanently", nil)
}

func (h *SubCategoryHandler) HandleDeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	n, err := h.subCategoryService.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Sub-categories permanently deleted", fiber.Map{"deletedCount": n})
}
