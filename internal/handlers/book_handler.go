package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/middleware"
	"bookvault/internal/models"
	"bookvault/internal/services"
)

// BookHandler handles HTTP requests for books, likes and bookmarks.
type BookHandler struct {
	bookService *services.BookService
	guards      Guards
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookService *services.BookService, guards Guards) *BookHandler {
	return &BookHandler{bookService: bookService, guards: guards}
}

// RegisterRoutes registers the book routes. All of them need a session.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/books", h.guards.Auth)
	staff := h.guards.Staff

	r.Post("/create", staff, h.HandleCreate)
	r.Get("/deleted", staff, h.HandleListDeleted)
	r.Get("/allBooks", h.HandleList)
	r.Get("/allBookMarks", h.HandleBookmarks)
	r.Get("/category/:categoryId", h.HandleByCategory)
	r.Get("/subCategory/:subCategoryId", h.HandleBySubCategory)
	r.Get("/search", h.HandleSearch)
	r.Put("/:id/status", staff, h.HandleSetStatus)
	r.Put("/:id/feature", staff, h.HandleSetFeatured)
	r.Put("/:id/update", staff, h.HandleUpdate)
	r.Patch("/:id/book", staff, h.HandleSoftDelete)
	r.Patch("/:id/restore", staff, h.HandleRestore)
	r.Delete("/multiDelete", staff, h.HandleDeleteMany)
	r.Delete("/:id/delete", staff, h.HandleDelete)
	r.Put("/:id/like", h.HandleToggleLike)
	r.Put("/:id/bookmark", h.HandleToggleBookmark)
	r.Get("/:id", h.HandleGet)
}

// bookRequest is decoded from JSON or from multipart form fields.
type bookRequest struct {
	Name              *string            `json:"name" form:"name"`
	Description       *string            `json:"description" form:"description"`
	CategoryID        *string            `json:"categoryId" form:"categoryId"`
	SubCategoryID     *string            `json:"subCategoryId" form:"subCategoryId"`
	Author            *string            `json:"author" form:"author"`
	Price             *float64           `json:"price" form:"price"`
	MRP               *float64           `json:"mrp" form:"mrp"`
	AccessType        *models.AccessType `json:"accessType" form:"accessType"`
	Featured          *bool              `json:"featured" form:"featured"`
	Status            *bool              `json:"status" form:"status"`
	AvailableForOrder *bool              `json:"availableForOrder" form:"availableForOrder"`
}

func (r bookRequest) input() services.BookInput {
	return services.BookInput{
		Name:              r.Name,
		Description:       r.Description,
		CategoryID:        r.CategoryID,
		SubCategoryID:     r.SubCategoryID,
		Author:            r.Author,
		Price:             r.Price,
		MRP:               r.MRP,
		AccessType:        r.AccessType,
		Featured:          r.Featured,
		Status:            r.Status,
		AvailableForOrder: r.AvailableForOrder,
	}
}

func bookMedia(c *fiber.Ctx) (services.BookMedia, error) {
	cover, err := formFile(c, "coverImage")
	if err != nil {
		return services.BookMedia{}, err
	}
	pdf, err := formFile(c, "bookPdf")
	if err != nil {
		return services.BookMedia{}, err
	}
	return services.BookMedia{Cover: cover, PDF: pdf}, nil
}

func (h *BookHandler) HandleCreate(c *fiber.Ctx) error {
	var req bookRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	media, err := bookMedia(c)
	if err != nil {
		return err
	}
	book, err := h.bookService.Create(c.UserContext(), middleware.CurrentUser(c), req.input(), media)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "Book created successfully", fiber.Map{"book": book})
}

func (h *BookHandler) HandleList(c *fiber.Ctx) error {
	books, err := h.bookService.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"books": books})
}

func (h *BookHandler) HandleGet(c *fiber.Ctx) error {
	book, err := h.bookService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"book": book})
}

func (h *BookHandler) HandleByCategory(c *fiber.Ctx) error {
	books, err := h.bookService.ByCategory(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"books": books})
}

func (h *BookHandler) HandleBySubCategory(c *fiber.Ctx) error {
	books, err := h.bookService.BySubCategory(c.UserContext(), c.Params("subCategoryId"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"books": books})
}

func (h *BookHandler) HandleSearch(c *fiber.Ctx) error {
	books, err := h.bookService.Search(c.UserContext(), c.Query("keyword"), models.AccessType(c.Query("accessType")))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"books": books})
}

func (h *BookHandler) HandleListDeleted(c *fiber.Ctx) error {
	books, err := h.bookService.ListDeleted(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"books": books})
}

func (h *BookHandler) HandleUpdate(c *fiber.Ctx) error {
	var req bookRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	media, err := bookMedia(c)
	if err != nil {
		return err
	}
	book, err := h.bookService.Update(c.UserContext(), c.Params("id"), req.input(), media)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book updated successfully", fiber.Map{"book": book})
}

func (h *BookHandler) HandleSetStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	book, err := h.bookService.SetStatus(c.UserContext(), c.Params("id"), *req.Status)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book status updated", fiber.Map{"book": book})
}

func (h *BookHandler) HandleSetFeatured(c *fiber.Ctx) error {
	var req featuredRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	book, err := h.bookService.SetFeatured(c.UserContext(), c.Params("id"), *req.Featured)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book feature flag updated", fiber.Map{"book": book})
}

func (h *BookHandler) HandleSoftDelete(c *fiber.Ctx) error {
	if err := h.bookService.SoftDelete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book soft deleted", nil)
}

func (h *BookHandler) HandleRestore(c *fiber.Ctx) error {
	if err := h.bookService.Restore(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book restored", nil)
}

func (h *BookHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.bookService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book permanently deleted", nil)
}

func (h *BookHandler) HandleDeleteMany(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	n, err := h.bookService.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Books permanently deleted", fiber.Map{"deletedCount": n})
}

func (h *BookHandler) HandleToggleLike(c *fiber.Ctx) error {
	liked, count, err := h.bookService.ToggleLike(c.UserContext(), c.Params("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	message := "Book unliked"
	if liked {
		message = "Book liked"
	}
	return ok(c, fiber.StatusOK, message, fiber.Map{"liked": liked, "likes": count})
}

func (h *BookHandler) HandleToggleBookmark(c *fiber.Ctx) error {
	marked, err := h.bookService.ToggleBookmark(c.UserContext(), c.Params("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	message := "Bookmark removed"
	if marked {
		message = "Book bookmarked"
	}
	return ok(c, fiber.StatusOK, message, fiber.Map{"bookmarked": marked})
}

func (h *BookHandler) HandleBookmarks(c *fiber.Ctx) error {
	books, err := h.bookService.Bookmarks(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"books": books})
}
