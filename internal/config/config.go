package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Planner defaults (gap, minimum
// turnaround, timezone) apply when a request does not carry its own
// settings.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to sign JWTs

	AccessTTLMin int // access token time-to-live in minutes
	BcryptCost   int // bcrypt cost for password hashing

	DefaultGapMinutes    int            // buffer added after every turnaround
	DefaultMinTurnaround int            // minimum linked turnaround in minutes
	Timezone             *time.Location // zone naive schedule times are interpreted in
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.  Required variables are enforced by must()
// and missing values cause the program to exit with a fatal log message.
func Load() Config {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		DefaultGapMinutes:    intOr("PLANNER_GAP_MINUTES", 15),
		DefaultMinTurnaround: intOr("PLANNER_MIN_TURNAROUND_MIN", 45),
		Timezone:             location("PLANNER_TIMEZONE"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intOr reads an optional integer with a default.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// location resolves the configured timezone, defaulting to UTC.
func location(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatalf("invalid timezone for %s: %q", key, name)
	}
	return loc
}
