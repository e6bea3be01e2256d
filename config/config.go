package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Export    ExportConfig
	S3        S3Config
}

type ServerConfig struct {
	Port           string
	GinMode        string
	Environment    string
	SeedSampleData bool
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RPS    int
	Window time.Duration
}

// ExportConfig controls the scheduled XLSX snapshot. An empty Schedule disables it.
type ExportConfig struct {
	Schedule string
	Prefix   string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	defaultLevel := "info"
	if environment == "development" {
		defaultLevel = "debug"
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5000"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			Environment:    environment,
			SeedSampleData: parseBool(getEnv("SEED_SAMPLE_DATA", "true")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", defaultLevel),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "admin"),
			Password:   getEnv("DB_PASSWORD", "1234"),
			DBName:     getEnv("DB_NAME", "customers"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "customers.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		RateLimit: RateLimitConfig{
			RPS:    parseInt(getEnv("RATE_LIMIT_RPS", "50"), 50),
			Window: parseDuration(getEnv("RATE_LIMIT_WINDOW", "1s"), time.Second),
		},
		Export: ExportConfig{
			Schedule: getEnv("EXPORT_SCHEDULE", ""),
			Prefix:   getEnv("EXPORT_PREFIX", "exports"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", config.Database.Driver)
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		// foreign keys are off by default in SQLite; cascades depend on them
		return c.SQLitePath + "?_foreign_keys=on"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
