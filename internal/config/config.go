// Package config loads application configuration from environment
// variables.  A .env file in the working directory is honored when
// present (godotenv); real environment variables win.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable; strings for identifiers and
// secrets, ints for durations and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	PublicBaseURL string // external base URL used in emailed links

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	DBMaxConns       int // connection pool size (open and idle)
	DBConnMaxLifeMin int // connection lifetime in minutes

	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	AdminEmail    string // bootstrap admin credential
	AdminPassword string

	SMTPHost string // empty disables outbound mail
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	AMQPURL string // empty disables the notification queue
}

// Load reads configuration from the environment.  Required variables
// are enforced by must(); missing values abort startup with a fatal
// log message.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		PublicBaseURL: getenvDefault("PUBLIC_BASE_URL", "http://localhost:5173"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		DBMaxConns:       atoiDefault(os.Getenv("DB_MAX_CONNS"), 25),
		DBConnMaxLifeMin: atoiDefault(os.Getenv("DB_CONN_MAX_LIFE_MIN"), 30),

		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		AdminEmail:    getenvDefault("ADMIN_EMAIL", "admin@studio.local"),
		AdminPassword: getenvDefault("ADMIN_PASSWORD", "change-me-on-first-login"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: atoiDefault(os.Getenv("SMTP_PORT"), 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		AMQPURL: os.Getenv("AMQP_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
