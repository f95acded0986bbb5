package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wichananm65/bookstore-backend/internal/book"
	"github.com/wichananm65/bookstore-backend/internal/cart"
	"github.com/wichananm65/bookstore-backend/internal/config"
	"github.com/wichananm65/bookstore-backend/internal/customer"
	"github.com/wichananm65/bookstore-backend/internal/database"
	"github.com/wichananm65/bookstore-backend/internal/metrics"
	"github.com/wichananm65/bookstore-backend/internal/order"
	"github.com/wichananm65/bookstore-backend/internal/payment"
	"github.com/wichananm65/bookstore-backend/internal/review"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	orderStore := order.NewPostgresStore(db)
	deps := appDeps{
		cfg:         cfg,
		customers:   customer.NewService(customer.NewPostgresRepository(db)),
		books:       book.NewService(book.NewPostgresRepository(db)),
		carts:       cart.NewService(cart.NewPostgresRepository(db)),
		orders:      order.NewService(orderStore, metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer), cfg.CheckoutTimeout),
		payments:    payment.NewService(payment.NewPostgresRepository(db, orderStore)),
		reviews:     review.NewService(review.NewPostgresRepository(db)),
		httpMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		health: func(ctx context.Context) map[string]string {
			return database.Health(ctx, db)
		},
	}
	app := newApp(deps)

	if cfg.PendingOrderTTL > 0 {
		go order.NewSweeper(orderStore, cfg.PendingOrderTTL, cfg.SweepInterval).Run(ctx)
	}

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
