package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/propserve/brokerage-api/internal/utils"
)

type Config struct {
	AppName           string
	AppPort           string
	AppURL            string
	DatabaseURL       string
	JWTSecret         string
	GoogleClientID    string
	SendgridAPIKey    string
	SendgridFromEmail string
	TokenExpiry       time.Duration
	OTPExpiry         time.Duration
}

// Load reads configuration from the environment, loading .env first when
// present. Missing required keys are fatal at startup.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, reading environment directly")
	}

	cfg := &Config{
		AppName:           getEnvOrDefault("APP_NAME", "brokerage-api"),
		AppPort:           getEnvOrDefault("APP_PORT", "8080"),
		AppURL:            getEnvOrDefault("APP_URL", "http://localhost:8080"),
		DatabaseURL:       mustGetEnv("DATABASE_URL"),
		JWTSecret:         mustGetEnv("JWT_SECRET"),
		GoogleClientID:    mustGetEnv("GOOGLE_CLIENT_ID"),
		SendgridAPIKey:    mustGetEnv("SENDGRID_API_KEY"),
		SendgridFromEmail: mustGetEnv("SENDGRID_FROM_EMAIL"),
		TokenExpiry:       getDurationOrDefault("TOKEN_EXPIRY", 60*time.Minute),
		OTPExpiry:         getDurationOrDefault("OTP_EXPIRY", 5*time.Minute),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		utils.Logger.Fatalf("Missing required environment variable: %s", key)
	}
	return val
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		utils.Logger.Fatalf("Invalid duration for %s: %v", key, err)
	}
	return d
}
