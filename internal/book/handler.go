package book

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

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/books", h.getBooks)
	app.Get("/books/:id", h.getBook)
}

// RegisterProtectedRoutes mounts catalog writes. They must be registered
// after the JWT middleware and additionally require the admin claim.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/books", customer.RequireAdmin, h.createBook)
	app.Put("/books/:id", customer.RequireAdmin, h.updateBook)
	app.Delete("/books/:id", customer.RequireAdmin, h.deleteBook)
}

func (h *Handler) getBooks(c *fiber.Ctx) error {
	books, err := h.service.List(c.UserContext())
	if err != nil {
		logging.Error("book", "list books failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load books"})
	}
	return c.JSON(books)
}

func (h *Handler) getBook(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid book id"})
	}
	b, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(b)
}

func (h *Handler) createBook(c *fiber.Ctx) error {
	b := new(Book)
	if err := c.BodyParser(b); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := Validate(*b); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.Create(c.UserContext(), *b)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateBook(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid book id"})
	}
	b := new(Book)
	if err := c.BodyParser(b); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := Validate(*b); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	updated, err := h.service.Update(c.UserContext(), id, *b)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteBook(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid book id"})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Book deleted"})
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Book not found"})
	case errors.Is(err, ErrInUse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot delete this book. It is already part of a customer's order."})
	default:
		logging.Error("book", "catalog request failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
	}
}
