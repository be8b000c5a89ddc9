package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Load reads the .env file if present. Missing files are not an error;
// deployments may provide real environment variables instead.
func Load() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Port the HTTP server listens on.
func Port() string {
	return getEnv("PORT", "8080")
}

// BaseURL is the public origin embedded into table QR links.
func BaseURL() string {
	return getEnv("BASE_URL", "http://localhost:8080")
}
