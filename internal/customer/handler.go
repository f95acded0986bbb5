package customer

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/bookstore-backend/internal/logging"
)

type Handler struct {
	service   *Service
	jwtSecret string
	tokenTTL  time.Duration
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/auth/register", h.register)
	app.Post("/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/auth/me", h.me)
}

func (h *Handler) me(c *fiber.Ctx) error {
	id, err := GetCustomerIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	cust, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "customer not found"})
		}
		logging.Error("customer", "profile lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
	return c.JSON(cust)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please provide name, email, and password."})
	}
	if strings.TrimSpace(payload.Address) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please provide valid address."})
	}

	created, err := h.service.Register(c.UserContext(), payload.Name, payload.Email, payload.Password, payload.Address)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already in use."})
		}
		logging.Error("customer", "registration failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during registration."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "User registered successfully",
		"customerId": created.ID,
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please provide email and password."})
	}

	cust, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
		}
		logging.Error("customer", "login failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during login."})
	}

	token, err := IssueToken(h.jwtSecret, h.tokenTTL, cust)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"customer": cust,
	})
}
