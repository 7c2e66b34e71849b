package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects every tunable the application reads from the
// environment. Components receive values from here instead of reading
// env vars or package constants themselves.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	UploadDir   string
	InvoiceDir  string

	// Bootstrap super admin, created only when the administrator table
	// is empty.
	BootstrapAdminName     string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	LowStockThreshold    int
	ReportLookbackMonths int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:                   getenv("PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		UploadDir:              getenv("UPLOAD_DIR", "./uploads"),
		InvoiceDir:             getenv("INVOICE_DIR", "./invoices"),
		BootstrapAdminName:     getenv("BOOTSTRAP_ADMIN_NAME", "Super Admin"),
		BootstrapAdminEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		LowStockThreshold:      getint("LOW_STOCK_THRESHOLD", 5),
		ReportLookbackMonths:   getint("REPORT_LOOKBACK_MONTHS", 6),
	}
}

// DSN builds a postgres DSN from DATABASE_URL or the discrete DB_* vars.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
