package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/bookstore-backend/internal/customer"
	"github.com/wichananm65/bookstore-backend/internal/logging"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/cart", h.getCart)
	app.Post("/cart", h.setLine)
	app.Delete("/cart", h.clearCart)
	app.Delete("/cart/:bookId", h.removeLine)
}

type cartRequest struct {
	BookID   int `json:"bookId"`
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cart, err := h.service.Get(c.UserContext(), customerID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) setLine(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.BookID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid bookId"})
	}

	cart, err := h.service.Set(c.UserContext(), customerID, payload.BookID, payload.Quantity)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	bookID, err := strconv.Atoi(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid bookId"})
	}
	cart, err := h.service.Remove(c.UserContext(), customerID, bookID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Clear(c.UserContext(), customerID); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrBookNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Book not found"})
	default:
		logging.Error("cart", "cart request failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
