package checkout

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/hot-sauce-storefront/internal/auth"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/payment-methods", h.getPaymentMethods)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.checkout)
	app.Get("/api/v1/orders", h.getOrders)
}

func (h *Handler) getPaymentMethods(c *fiber.Ctx) error {
	return c.JSON(PaymentMethods)
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	email, err := auth.EmailFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ord, err := h.service.Checkout(c.UserContext(), email, *payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingAddress), errors.Is(err, ErrMissingPayment),
			errors.Is(err, ErrInvalidPaymentMethod), errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			h.logger.ErrorContext(c.UserContext(), "checkout failed", "email", email, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to place order"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(ord)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	email, err := auth.EmailFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.List(c.UserContext(), email)
	if err != nil {
		h.logger.ErrorContext(c.UserContext(), "list orders failed", "email", email, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load orders"})
	}
	return c.JSON(orders)
}
