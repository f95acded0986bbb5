package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/bookstore-backend/internal/customer"
	"github.com/wichananm65/bookstore-backend/internal/logging"
)

// Handler delegates order operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/orders/checkout", h.checkout)
	app.Get("/orders", h.getOrders)
}

// checkout takes no body: the server-side cart is the only source of lines
// and prices.
func (h *Handler) checkout(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	placed, err := h.service.PlaceOrder(c.UserContext(), customerID)
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cart is empty."})
		case errors.As(err, &stockErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message":    stockErr.Error(),
				"shortfalls": stockErr.Shortfalls,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Checkout failed, please try again."})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   placed,
	})
}

// getOrders returns all orders belonging to the currently authenticated
// customer, newest first.
func (h *Handler) getOrders(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.History(c.UserContext(), customerID)
	if err != nil {
		logging.Error("order", "load order history failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load orders"})
	}
	return c.JSON(orders)
}
