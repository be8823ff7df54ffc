package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultSecretKey is the fallback signing key. It must be overridden in
// production; main logs a warning when it is still in use.
const DefaultSecretKey = "your-secret-key-change-in-production"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	HTTPPort  string
	SecretKey string
	Debug     bool

	MinDonorAge         int
	MaxDonorAge         int
	MaxDonationQuantity int
}

// Load reads configuration from the environment (and an optional .env file),
// falling back to hardcoded defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "blood_bank"),

		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		SecretKey: getEnv("SECRET_KEY", DefaultSecretKey),
		Debug:     getEnv("DEBUG", "false") == "true",

		MinDonorAge:         getEnvInt("MIN_DONOR_AGE", 18),
		MaxDonorAge:         getEnvInt("MAX_DONOR_AGE", 65),
		MaxDonationQuantity: getEnvInt("MAX_DONATION_QUANTITY", 500),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// SecretIsDefault reports whether the insecure fallback key is still in use.
func (c *Config) SecretIsDefault() bool {
	return c.SecretKey == DefaultSecretKey
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	if c.MinDonorAge <= 0 || c.MaxDonorAge < c.MinDonorAge {
		return fmt.Errorf("invalid donor age range [%d, %d]", c.MinDonorAge, c.MaxDonorAge)
	}
	if c.MaxDonationQuantity <= 0 {
		return fmt.Errorf("MAX_DONATION_QUANTITY must be positive, got %d", c.MaxDonationQuantity)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
