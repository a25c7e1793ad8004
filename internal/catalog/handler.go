package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/hot-sauce-storefront/internal/filter"
	"github.com/wichananm65/hot-sauce-storefront/internal/money"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

type Handler struct {
	service *Service
	money   money.Formatter
}

func NewHandler(s *Service, f money.Formatter) *Handler {
	return &Handler{service: s, money: f}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/product/:id", h.getProductByID)
	app.Get("/api/v1/filters", h.getFilters)
}

type productView struct {
	product.Product
	DisplayPrice string `json:"displayPrice"`
}

func (h *Handler) view(p product.Product) productView {
	return productView{Product: p, DisplayPrice: h.money.Format(p.Price)}
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	criteria, err := filter.ParseQuery(func(key string) string { return c.Query(key) })
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	products := h.service.Search(c.UserContext(), c.Query("search"), criteria)
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, h.view(p))
	}
	return c.JSON(fiber.Map{"products": out, "count": len(out)})
}

func (h *Handler) getProductByID(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(h.view(p))
}

func (h *Handler) getFilters(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"spiceLevels":   filter.SpiceLevels(),
		"priceBrackets": filter.PriceBrackets(h.money),
		"categories":    product.Categories,
	})
}
