package cart

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/book"
)

func makeAppWithCartHandler(cHandler *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Customer-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"customer_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	cHandler.RegisterProtectedRoutes(app)
	return app
}

func newTestHandler() *Handler {
	catalog := book.NewInMemoryRepository([]book.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Price: decimal.RequireFromString("12.50"), Stock: 3},
		{ID: 3, Title: "Kindred", Author: "Octavia Butler", Price: decimal.RequireFromString("9.99"), Stock: 1},
	})
	return NewHandler(NewService(NewInMemoryRepository(catalog)))
}

func decodeCart(t *testing.T, body io.Reader) Cart {
	t.Helper()
	var out Cart
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	return out
}

func TestCartRoutes_Basic(t *testing.T) {
	app := makeAppWithCartHandler(newTestHandler())

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{"GET /cart", "POST /cart", "DELETE /cart/:bookId"} {
		if !routes[want] {
			t.Fatalf("expected route %s to be registered", want)
		}
	}

	// unauthorized access should be blocked
	res, _ := app.Test(httptest.NewRequest("GET", "/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	req := httptest.NewRequest("POST", "/cart", strings.NewReader(`{"bookId":1,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Customer-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for set, got %d", res.StatusCode)
	}
	cart := decodeCart(t, res.Body)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if !cart.Total.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected total 25, got %s", cart.Total)
	}

	// setting again replaces rather than increments
	req = httptest.NewRequest("POST", "/cart", strings.NewReader(`{"bookId":1,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Customer-ID", "42")
	res, _ = app.Test(req)
	cart = decodeCart(t, res.Body)
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("expected last write to win, got %d", cart.Items[0].Quantity)
	}

	req = httptest.NewRequest("DELETE", "/cart/1", nil)
	req.Header.Set("X-Customer-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", res.StatusCode)
	}
	if cart = decodeCart(t, res.Body); len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}

	// removing again is fine
	req = httptest.NewRequest("DELETE", "/cart/1", nil)
	req.Header.Set("X-Customer-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected idempotent remove, got %d", res.StatusCode)
	}
}

func TestCartSet_Rejections(t *testing.T) {
	app := makeAppWithCartHandler(newTestHandler())

	cases := []struct {
		body string
		code int
	}{
		{`{"bookId":1,"quantity":0}`, fiber.StatusBadRequest},
		{`{"bookId":1,"quantity":-3}`, fiber.StatusBadRequest},
		{`{"bookId":0,"quantity":1}`, fiber.StatusBadRequest},
		{`{"bookId":99,"quantity":1}`, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/cart", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Customer-ID", "7")
		res, _ := app.Test(req)
		if res.StatusCode != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.body, tc.code, res.StatusCode)
		}
	}
}

func TestCart_IsolatedPerCustomer(t *testing.T) {
	app := makeAppWithCartHandler(newTestHandler())

	req := httptest.NewRequest("POST", "/cart", strings.NewReader(`{"bookId":3,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Customer-ID", "1")
	app.Test(req)

	req = httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("X-Customer-ID", "2")
	res, _ := app.Test(req)
	if cart := decodeCart(t, res.Body); len(cart.Items) != 0 {
		t.Fatalf("customer 2 should not see customer 1's cart: %+v", cart.Items)
	}

	req = httptest.NewRequest("DELETE", "/cart", nil)
	req.Header.Set("X-Customer-ID", "1")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear cart, got %d", res.StatusCode)
	}
}
