package wishlist

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

// ProductLookup resolves catalog ids to product snapshots.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
}

type Handler struct {
	store    *Store
	products ProductLookup
}

func NewHandler(store *Store, products ProductLookup) *Handler {
	return &Handler{store: store, products: products}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/wishlist", h.getWishlist)
	app.Post("/api/v1/wishlist", h.addToWishlist)
	app.Post("/api/v1/wishlist/refresh", h.refresh)
	app.Get("/api/v1/wishlist/:id", h.isInWishlist)
	app.Delete("/api/v1/wishlist/:id", h.removeFromWishlist)
}

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) getWishlist(c *fiber.Ctx) error {
	return c.JSON(h.store.Items())
}

func (h *Handler) addToWishlist(c *fiber.Ctx) error {
	payload := new(wishlistRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "productId is required"})
	}

	p, err := h.products.GetByID(c.UserContext(), payload.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	h.store.AddToWishlist(p)
	return c.JSON(h.store.Items())
}

func (h *Handler) removeFromWishlist(c *fiber.Ctx) error {
	h.store.RemoveFromWishlist(c.Params("id"))
	return c.JSON(h.store.Items())
}

func (h *Handler) isInWishlist(c *fiber.Ctx) error {
	id := c.Params("id")
	return c.JSON(fiber.Map{"productId": id, "inWishlist": h.store.IsInWishlist(id)})
}

func (h *Handler) refresh(c *fiber.Ctx) error {
	return c.JSON(h.store.Refresh(c.UserContext()))
}
