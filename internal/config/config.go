package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	GatewayBaseURL     string
	GatewayClientID    string
	GatewayAPIKey      string
	GatewayChecksumKey string
	GatewayTimeout     time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		GatewayBaseURL:     os.Getenv("GATEWAY_BASE_URL"),
		GatewayClientID:    os.Getenv("GATEWAY_CLIENT_ID"),
		GatewayAPIKey:      os.Getenv("GATEWAY_API_KEY"),
		GatewayChecksumKey: os.Getenv("GATEWAY_CHECKSUM_KEY"),
		GatewayTimeout:     parseTimeout(os.Getenv("GATEWAY_TIMEOUT")),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// parseTimeout falls back to 10s so a hung gateway call can never block
// a checkout request indefinitely.
func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
