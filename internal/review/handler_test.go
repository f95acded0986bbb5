package review

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/book"
	"github.com/wichananm65/bookstore-backend/internal/customer"
)

func makeAppWithReviewHandler(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Customer-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"customer_id": id}})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newTestHandler() *Handler {
	catalog := book.NewInMemoryRepository([]book.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Price: decimal.RequireFromString("12.50"), Stock: 3},
	})
	customers := customer.NewInMemoryRepository([]customer.Customer{
		{ID: 5, Name: "Ann", Email: "ann@example.com"},
		{ID: 6, Name: "Bo", Email: "bo@example.com"},
	})
	return NewHandler(NewService(NewInMemoryRepository(catalog, customers)))
}

func postReview(app *fiber.App, customerID, path, body string) int {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if customerID != "" {
		req.Header.Set("X-Customer-ID", customerID)
	}
	res, _ := app.Test(req)
	return res.StatusCode
}

func TestReviewRoutes(t *testing.T) {
	app := makeAppWithReviewHandler(newTestHandler())

	if code := postReview(app, "", "/reviews/1", `{"rating":5,"comments":"great"}`); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", code)
	}
	if code := postReview(app, "5", "/reviews/1", `{"rating":5,"comments":"Loved it"}`); code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := postReview(app, "6", "/reviews/1", `{"rating":3,"comments":"Slow start"}`); code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	// reading is public
	res, _ := app.Test(httptest.NewRequest("GET", "/reviews/1", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var reviews []Review
	if err := json.NewDecoder(res.Body).Decode(&reviews); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	if reviews[0].CustomerName != "Bo" || reviews[1].CustomerName != "Ann" {
		t.Fatalf("expected newest first with reviewer names, got %+v", reviews)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/reviews/2", nil))
	var none []Review
	_ = json.NewDecoder(res.Body).Decode(&none)
	if res.StatusCode != fiber.StatusOK || len(none) != 0 {
		t.Fatalf("expected empty list for an unreviewed book, got %d %v", res.StatusCode, none)
	}
}

func TestAddReview_Rejections(t *testing.T) {
	app := makeAppWithReviewHandler(newTestHandler())

	cases := []struct {
		path, body string
		want       int
	}{
		{"/reviews/1", `{"comments":"no rating"}`, fiber.StatusBadRequest},
		{"/reviews/1", `{"rating":4}`, fiber.StatusBadRequest},
		{"/reviews/1", `{"rating":6,"comments":"too high"}`, fiber.StatusBadRequest},
		{"/reviews/1", `{"rating":4,"comments":"   "}`, fiber.StatusBadRequest},
		{"/reviews/abc", `{"rating":4,"comments":"ok"}`, fiber.StatusBadRequest},
		{"/reviews/99", `{"rating":4,"comments":"ok"}`, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		if code := postReview(app, "5", tc.path, tc.body); code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.path, tc.body, tc.want, code)
		}
	}
}
