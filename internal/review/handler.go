package review

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/reviews/:bookId", h.listReviews)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/reviews/:bookId", h.addReview)
}

type reviewRequest struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

func (h *Handler) listReviews(c *fiber.Ctx) error {
	bookID, err := strconv.Atoi(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid bookId"})
	}
	reviews, err := h.service.List(c.UserContext(), bookID)
	if err != nil {
		logging.Error("review", "list reviews failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
	return c.JSON(reviews)
}

func (h *Handler) addReview(c *fiber.Ctx) error {
	customerID, err := customer.GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	bookID, err := strconv.Atoi(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid bookId"})
	}
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Rating == 0 || payload.Comments == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Rating and comments are required."})
	}

	created, err := h.service.Add(c.UserContext(), customerID, bookID, payload.Rating, payload.Comments)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidReview):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrBookNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Book not found"})
		}
		logging.Error("review", "add review failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Review added successfully!",
		"reviewId": created.ID,
	})
}
