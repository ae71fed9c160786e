package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookvault/internal/middleware"
	"bookvault/internal/services"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	cartService *services.CartService
	guards      Guards
}

func NewCartHandler(cartService *services.CartService, guards Guards) *CartHandler {
	return &CartHandler{cartService: cartService, guards: guards}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/cart", h.guards.Auth)

	r.Get("/", h.HandleGet)
	r.Post("/add", h.HandleAdd)
	r.Put("/update", h.HandleUpdate)
	r.Delete("/remove/:bookId", h.HandleRemove)
	r.Delete("/clear", h.HandleClear)
}

type cartItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) HandleGet(c *fiber.Ctx) error {
	cart, err := h.cartService.Get(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"cart": cart})
}

func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	cart, err := h.cartService.Add(c.UserContext(), middleware.CurrentUser(c).ID, req.BookID, req.Quantity)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book added to cart", fiber.Map{"cart": cart})
}

func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	cart, err := h.cartService.UpdateQuantity(c.UserContext(), middleware.CurrentUser(c).ID, req.BookID, req.Quantity)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Cart updated", fiber.Map{"cart": cart})
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	cart, err := h.cartService.Remove(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("bookId"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Book removed from cart", fiber.Map{"cart": cart})
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	cart, err := h.cartService.Clear(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Cart cleared", fiber.Map{"cart": cart})
}
