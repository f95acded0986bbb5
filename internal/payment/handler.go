package payment

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/bookstore-backend/internal/customer"
	"github.com/wichananm65/bookstore-backend/internal/logging"
	"github.com/wichananm65/bookstore-backend/internal/order"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/payments", h.recordPayment)
	app.Get("/payments/:orderId", h.getPayments)
}

type paymentRequest struct {
	OrderID int             `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
	Status  Status          `json:"status"`
}

func (h *Handler) recordPayment(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(paymentRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, orderStatus, err := h.service.Record(c.UserContext(), customerID, payload.OrderID, payload.Amount, payload.Method, payload.Status)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"paymentId":   p.ID,
		"reference":   p.Reference,
		"orderStatus": orderStatus,
	})
}

func (h *Handler) getPayments(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orderID, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid orderId"})
	}

	payments, err := h.service.Get(c.UserContext(), customerID, orderID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(payments)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidPayment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please provide orderId, a non-negative amount and a method."})
	case errors.Is(err, order.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	case errors.Is(err, ErrOrderNotPayable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Order is cancelled"})
	default:
		logging.Error("payment", "payment request failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
