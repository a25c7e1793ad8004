package checkout

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// makeAppWithCheckoutHandler injects a jwt.Token carrying the X-Email header
// as its email claim, standing in for the auth middleware.
func makeAppWithCheckoutHandler(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Email"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"email": v}})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body, email string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("X-Email", email)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCheckoutRoutes(t *testing.T) {
	c := newCart(t)
	h := NewHandler(NewService(NewInMemoryRepository(), c, nil), slog.New(slog.NewTextHandler(io.Discard, nil)))
	app := makeAppWithCheckoutHandler(h)

	status, body := send(t, app, "GET", "/api/v1/payment-methods", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, "Google Pay") {
		t.Fatalf("unexpected payment methods %d: %s", status, body)
	}

	status, _ = send(t, app, "POST", "/api/v1/checkout", `{"shippingAddress":"x","paymentMethod":"PayPal"}`, "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status, body = send(t, app, "POST", "/api/v1/checkout", `{"shippingAddress":"x","paymentMethod":"PayPal"}`, "jo@example.com")
	if status != fiber.StatusBadRequest || !strings.Contains(body, "cart is empty") {
		t.Fatalf("expected empty cart rejection, got %d: %s", status, body)
	}

	fill(t, c, "1")
	status, body = send(t, app, "POST", "/api/v1/checkout", `{"shippingAddress":"1 Chilli Lane","paymentMethod":"PayPal"}`, "jo@example.com")
	if status != fiber.StatusCreated || !strings.Contains(body, `"total":"14.99"`) {
		t.Fatalf("unexpected checkout response %d: %s", status, body)
	}

	status, body = send(t, app, "GET", "/api/v1/orders", "", "jo@example.com")
	if status != fiber.StatusOK || !strings.Contains(body, `"paymentMethod":"PayPal"`) {
		t.Fatalf("unexpected orders response %d: %s", status, body)
	}

	_, body = send(t, app, "GET", "/api/v1/orders", "", "someone@else.com")
	if body != "[]" {
		t.Fatalf("expected no orders for another user, got %s", body)
	}
}
