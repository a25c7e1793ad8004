package cart

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/hot-sauce-storefront/internal/money"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

func makeAppWithCartHandler(t *testing.T) *fiber.App {
	t.Helper()
	repo := product.NewInMemoryRepository([]product.Product{sauce("1", "9.99"), sauce("2", "8.99")})
	handler := NewHandler(NewService(NewStore(DefaultShippingFee, nil), repo), money.NewFormatter("£"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestCartRoutes_Basic(t *testing.T) {
	app := makeAppWithCartHandler(t)

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	for _, p := range []string{"/api/v1/cart", "/api/v1/cart/:id"} {
		if !routes[p] {
			t.Fatalf("expected route %q to be registered", p)
		}
	}

	status, body := doRequest(t, app, "GET", "/api/v1/cart", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `"count":0`) || !strings.Contains(body, `"total":"£0.00"`) {
		t.Fatalf("unexpected empty cart body: %s", body)
	}

	doRequest(t, app, "POST", "/api/v1/cart", `{"productId":"1"}`)
	doRequest(t, app, "POST", "/api/v1/cart", `{"productId":"2"}`)
	status, body = doRequest(t, app, "POST", "/api/v1/cart", `{"productId":"2"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", status)
	}
	if !strings.Contains(body, `"count":3`) || !strings.Contains(body, `"subtotal":"£27.97"`) || !strings.Contains(body, `"total":"£32.97"`) {
		t.Fatalf("unexpected totals: %s", body)
	}

	// decrement product 2 to zero and ensure it is removed
	status, body = doRequest(t, app, "PATCH", "/api/v1/cart/2", `{"delta":-2}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for update, got %d", status)
	}
	if strings.Contains(body, `"id":"2"`) {
		t.Fatalf("expected product 2 to be removed, got %s", body)
	}

	status, body = doRequest(t, app, "DELETE", "/api/v1/cart/1", "")
	if status != fiber.StatusOK || !strings.Contains(body, `"count":0`) {
		t.Fatalf("expected empty cart after remove, got %d %s", status, body)
	}

	doRequest(t, app, "POST", "/api/v1/cart", `{"productId":"1"}`)
	status, _ = doRequest(t, app, "DELETE", "/api/v1/cart", "")
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear cart, got %d", status)
	}
	_, body = doRequest(t, app, "GET", "/api/v1/cart", "")
	if !strings.Contains(body, `"items":[]`) {
		t.Fatalf("expected empty cart after clear, got %s", body)
	}
}

func TestCartRoutes_Errors(t *testing.T) {
	app := makeAppWithCartHandler(t)

	if status, _ := doRequest(t, app, "POST", "/api/v1/cart", `{"productId":"404"}`); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", status)
	}
	if status, _ := doRequest(t, app, "POST", "/api/v1/cart", `{}`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing productId, got %d", status)
	}
	if status, _ := doRequest(t, app, "PATCH", "/api/v1/cart/1", `not json`); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", status)
	}
}
