package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. It is built once in main and
// handed to each component; nothing reads the environment after Load.
type Config struct {
	ListenAddr string
	BaseURL    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RazorpayKeyID     string
	RazorpayKeySecret string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	JWTSecret string

	// GST rate as a percentage (18 means 18%).
	GSTRate float64

	// Comma-separated Kafka brokers; empty disables Kafka entirely.
	KafkaBrokers string
}

// Load reads .env (if present) and the environment and returns the config.
func Load() (*Config, error) {
	// Try loading .env from different locations
	envLocations := []string{
		".env",
		"config/.env",
		"../config/.env",
		"../../config/.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	smtpPort, err := strconv.Atoi(getEnvWithDefault("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	gstRate, err := strconv.ParseFloat(getEnvWithDefault("GST_RATE", "18"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GST_RATE: %w", err)
	}

	cfg := &Config{
		ListenAddr: getEnvWithDefault("LISTEN_ADDR", ":8080"),
		BaseURL:    getEnvWithDefault("BASE_URL", "http://localhost:8080"),

		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvWithDefault("DB_NAME", "enrollment"),

		RazorpayKeyID:     os.Getenv("RazorpayKeyID"),
		RazorpayKeySecret: os.Getenv("RazorpayKeySecret"),

		SMTPHost:  getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  smtpPort,
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GSTRate: gstRate,

		KafkaBrokers: getEnvWithDefault("KAFKA_BROKERS", ""),
	}

	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUser
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DBConnString builds the lib/pq connection string.
func (c *Config) DBConnString() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=disable"
}
