package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	Env          string
	DBDSN        string
	LogFile      string
	JWTSecret    string
	TokenTTL     time.Duration
	TaxRate      float64
	RedisAddr    string
	CacheTTL     time.Duration
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	MailFrom     string
	FixturesFile string
}

// Production hides internal error details from API responses.
func (c Config) Production() bool { return c.Env == "production" }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() Config {
	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil {
		log.Printf("[config] bad TOKEN_TTL, using 24h: %v", err)
		ttl = 24 * time.Hour
	}
	cacheTTL, err := time.ParseDuration(getenv("CACHE_TTL", "5m"))
	if err != nil {
		cacheTTL = 5 * time.Minute
	}
	tax, err := strconv.ParseFloat(getenv("TAX_RATE", "0"), 64)
	if err != nil || tax < 0 {
		log.Printf("[config] bad TAX_RATE, using 0")
		tax = 0
	}

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		Env:          getenv("APP_ENV", "development"),
		DBDSN:        getenv("DB_DSN", "equipstore.db"), // sqlite file in project root
		LogFile:      getenv("LOG_FILE", "./equipstore.log"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:     ttl,
		TaxRate:      tax,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CacheTTL:     cacheTTL,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		MailFrom:     getenv("MAIL_FROM", "orders@equipstore.ng"),
		FixturesFile: os.Getenv("FIXTURES_FILE"),
	}
	if cfg.Production() && cfg.JWTSecret == "dev-secret-change-me" {
		log.Printf("[config] WARNING: JWT_SECRET is the development default")
	}
	log.Printf("[config] PORT=%s APP_ENV=%s DB_DSN=%s LOG_FILE=%s TAX_RATE=%v REDIS_ADDR=%s SMTP_HOST=%s",
		cfg.Port, cfg.Env, cfg.DBDSN, cfg.LogFile, cfg.TaxRate, cfg.RedisAddr, cfg.SMTPHost)
	return cfg
}
