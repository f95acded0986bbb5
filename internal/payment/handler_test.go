package payment

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeAppWithPaymentHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Customer-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"customer_id": id}})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestPaymentRoutes(t *testing.T) {
	store, o := placedOrder(t, 7)
	app := makeAppWithPaymentHandler(NewHandler(NewService(NewInMemoryRepository(store))))
	orderID := strconv.Itoa(o.ID)

	body := `{"orderId":` + orderID + `,"amount":"10.00","method":"card"}`
	req := httptest.NewRequest("POST", "/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("POST", "/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Customer-ID", "7")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	var out struct {
		PaymentID   int    `json:"paymentId"`
		Reference   string `json:"reference"`
		OrderStatus string `json:"orderStatus"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.PaymentID != 1 || out.OrderStatus != "Paid" || len(out.Reference) != 36 {
		t.Fatalf("unexpected response %+v", out)
	}

	req = httptest.NewRequest("POST", "/payments", strings.NewReader(`{"orderId":`+orderID+`,"amount":"10.00"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Customer-ID", "7")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without method, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/payments/"+orderID, nil)
	req.Header.Set("X-Customer-ID", "8")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for another customer's order, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("GET", "/payments/"+orderID, nil)
	req.Header.Set("X-Customer-ID", "7")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var payments []Payment
	if err := json.NewDecoder(res.Body).Decode(&payments); err != nil || len(payments) != 1 {
		t.Fatalf("unexpected payments %+v (%v)", payments, err)
	}
}
