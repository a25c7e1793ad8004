package cart

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/hot-sauce-storefront/internal/money"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// Handler exposes the session cart over HTTP.
type Handler struct {
	service   *Service
	formatter money.Formatter
	logger    *slog.Logger
}

func NewHandler(s *Service, f money.Formatter, logger *slog.Logger) *Handler {
	return &Handler{service: s, formatter: f, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Patch("/api/v1/cart/:id", h.updateQuantity)
	app.Delete("/api/v1/cart/:id", h.removeFromCart)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addRequest struct {
	ProductID string `json:"productId"`
}

type updateRequest struct {
	Delta int `json:"delta"`
}

type cartResponse struct {
	Snapshot
	Display map[string]string `json:"display"`
}

func (h *Handler) render(s Snapshot) cartResponse {
	return cartResponse{
		Snapshot: s,
		Display: map[string]string{
			"subtotal": h.formatter.Format(s.Summary.Subtotal),
			"shipping": h.formatter.Format(s.Summary.Shipping),
			"total":    h.formatter.Format(s.Summary.Total),
		},
	}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	return c.JSON(h.render(h.service.Get()))
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId is required"})
	}

	snap, err := h.service.Add(c.UserContext(), payload.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		h.logger.Error("cart add failed", "product_id", payload.ProductID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.render(snap))
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.render(h.service.UpdateQuantity(c.Params("id"), payload.Delta)))
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	return c.JSON(h.render(h.service.Remove(c.Params("id"))))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	h.service.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
