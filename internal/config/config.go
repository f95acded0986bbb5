package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	CheckoutTimeout time.Duration
	// PendingOrderTTL of zero disables the stale-order sweeper.
	PendingOrderTTL time.Duration
	SweepInterval   time.Duration
	CORSOrigins     string
}

// Load reads configuration from the environment, after merging a local .env
// file when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        getenv("BOOKSTORE_ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: getenv("CORS_ORIGINS", "*"),
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}

	var err error
	if cfg.JWTTTL, err = durationEnv("JWT_TTL", 72*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CheckoutTimeout, err = durationEnv("CHECKOUT_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PendingOrderTTL, err = durationEnv("PENDING_ORDER_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + ": " + err.Error())
	}
	if d < 0 {
		return 0, errors.New(key + " must not be negative")
	}
	return d, nil
}
