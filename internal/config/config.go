package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int

	JWTSecret string

	// Razorpay credentials. Empty keys are a configuration error reported
	// before any remote call is attempted.
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayWebhookID string

	// When true one invoice covers the whole checkout; otherwise one
	// invoice per order (legacy mode).
	ConsolidatedInvoice bool

	SendGridAPIKey   string
	InvoiceFromEmail string
	InvoiceFromName  string

	GoEnv string
}

func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookID: os.Getenv("RAZORPAY_WEBHOOK_ID"),

		ConsolidatedInvoice: boolEnv("CONSOLIDATED_INVOICE", true),

		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		InvoiceFromEmail: os.Getenv("INVOICE_FROM_EMAIL"),
		InvoiceFromName:  getenv("INVOICE_FROM_NAME", "Our Store"),

		GoEnv: getenv("GO_ENV", "dev"),
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	// Razorpay, SendGrid keys stay optional: cod/upi_qr checkouts and
	// invoice downloads work without them.

	return cfg, nil
}

func (c Config) RazorpayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func boolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
