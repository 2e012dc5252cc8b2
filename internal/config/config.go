package config // loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"

	"github.com/amkessy/law-practice-api/internal/model"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Required variables are enforced by must()
// and missing values halt startup with a fatal log message; everything
// else has a sensible default.
type Config struct {
	Env            string         // application environment ("dev", "test", "prod")
	Port           string         // HTTP port to listen on
	DBUser         string         // database username
	DBPass         string         // database password (optional)
	DBHost         string         // database host address
	DBPort         string         // database port number
	DBName         string         // database name
	JWTSecret      string         // secret used to sign JWTs
	AccessTTLMin   int            // access token time-to-live in minutes
	RefreshTTLDays int            // refresh token time-to-live in days
	BcryptCost     int            // bcrypt cost for password hashing
	CORSOrigin     string         // allowed CORS origin for the frontend
	BaseCurrency   model.Currency // the firm's reporting currency
}

// Load reads configuration values from environment variables.
func Load() Config {
	base, ok := model.ParseCurrency(envStr("BASE_CURRENCY", "TZS"))
	if !ok {
		log.Fatalf("invalid BASE_CURRENCY: %q", os.Getenv("BASE_CURRENCY"))
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		CORSOrigin:     envStr("FRONTEND_URL", "http://localhost:3000"),
		BaseCurrency:   base,
	}
}

// IsProd reports whether the app runs in production mode.  Error
// responses include diagnostic detail only when this is false.
func (c Config) IsProd() bool { return c.Env == "prod" }

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
