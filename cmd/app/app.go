package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/wichananm65/bookstore-backend/internal/book"
	"github.com/wichananm65/bookstore-backend/internal/cart"
	"github.com/wichananm65/bookstore-backend/internal/config"
	"github.com/wichananm65/bookstore-backend/internal/customer"
	"github.com/wichananm65/bookstore-backend/internal/metrics"
	"github.com/wichananm65/bookstore-backend/internal/order"
	"github.com/wichananm65/bookstore-backend/internal/payment"
	"github.com/wichananm65/bookstore-backend/internal/review"
)

type appDeps struct {
	cfg         config.Config
	customers   *customer.Service
	books       *book.Service
	carts       *cart.Service
	orders      *order.Service
	payments    *payment.Service
	reviews     *review.Service
	httpMetrics *metrics.HTTPMetrics
	health      func(ctx context.Context) map[string]string
}

// newApp builds the fiber app. Public routes are registered before the JWT
// middleware, protected ones after it.
func newApp(d appDeps) *fiber.App {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	setupCORS(app, d.cfg.CORSOrigins)
	if d.httpMetrics != nil {
		app.Use(d.httpMetrics.Middleware())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		stats := d.health(c.UserContext())
		if stats["status"] != "up" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(stats)
		}
		return c.JSON(stats)
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	customerHandler := customer.NewHandler(d.customers, d.cfg.JWTSecret, d.cfg.JWTTTL)
	bookHandler := book.NewHandler(d.books)
	reviewHandler := review.NewHandler(d.reviews)
	customerHandler.RegisterPublicRoutes(app)
	bookHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)

	app.Use(customer.Middleware(d.cfg.JWTSecret))

	customerHandler.RegisterProtectedRoutes(app)
	bookHandler.RegisterProtectedRoutes(app)
	reviewHandler.RegisterProtectedRoutes(app)
	cart.NewHandler(d.carts).RegisterProtectedRoutes(app)
	order.NewHandler(d.orders).RegisterProtectedRoutes(app)
	payment.NewHandler(d.payments).RegisterProtectedRoutes(app)

	return app
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}
