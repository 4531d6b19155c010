package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL    string
	TotalPages int
	UserAgent  string

	RateLimitMs    int
	MaxRetries     int
	HTTPTimeoutSec int

	OutputPath     string
	CheckpointPath string
	Resume         bool

	GeocoderURL         string
	GeocoderUserAgent   string
	GeocoderRateLimitMs int

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ViewerAddr string
	RatesURL   string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:    getEnv("RYOKAN_BASE_URL", "https://selected-ryokan.com"),
		TotalPages: getEnvInt("RYOKAN_TOTAL_PAGES", 54),
		UserAgent: getEnv("SCRAPER_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),

		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 750),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 30),

		OutputPath:     getEnv("CSV_OUTPUT_PATH", "./output/ryokans_db.csv"),
		CheckpointPath: getEnv("CHECKPOINT_PATH", "./output/ryokans_raw.json"),
		Resume:         getEnvBool("RESUME", false),

		GeocoderURL:         getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:   getEnv("GEOCODER_USER_AGENT", "ryokan_explorer_app_v1"),
		GeocoderRateLimitMs: getEnvInt("GEOCODER_RATE_LIMIT_MS", 1100),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "ryokan"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "ryokan123"),
		PostgresDB:       getEnv("POSTGRES_DB", "ryokan_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ViewerAddr: getEnv("VIEWER_ADDR", ":8080"),
		RatesURL:   getEnv("RATES_URL", "https://open.er-api.com/v6/latest/JPY"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
