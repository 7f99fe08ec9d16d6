package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Engine knobs.
	RoundSize    int
	TaskDelayMin time.Duration
	TaskDelayMax time.Duration
	PaceMin      time.Duration
	PaceMax      time.Duration
	TaskTimeout  time.Duration
	SendsPerSec  float64

	// Transport.
	EmailProvider string
	SMTPHost      string
	SMTPPort      string
	AWSRegion     string

	// Optional MySQL audit mirror.
	MySQLDSN     string
	MySQLMaxOpen int
	MySQLMaxIdle int
	MySQLMaxLife time.Duration

	// Optional shared opt-out store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Progress endpoint.
	HTTPHost string
	HTTPPort string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		RoundSize:    getInt("ROUND_SIZE", 164),
		TaskDelayMin: getDuration("TASK_DELAY_MIN", 1*time.Second),
		TaskDelayMax: getDuration("TASK_DELAY_MAX", 9*time.Second),
		PaceMin:      getDuration("ROUND_PACE_MIN", 180*time.Second),
		PaceMax:      getDuration("ROUND_PACE_MAX", 280*time.Second),
		TaskTimeout:  getDuration("TASK_TIMEOUT", 300*time.Second),
		SendsPerSec:  getFloat("SENDS_PER_SEC", 0),

		EmailProvider: getEnv("EMAIL_PROVIDER", "smtp"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "465"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		MySQLDSN:     getEnv("MYSQL_DSN", ""),
		MySQLMaxOpen: getInt("MYSQL_MAX_OPEN", 10),
		MySQLMaxIdle: getInt("MYSQL_MAX_IDLE", 5),
		MySQLMaxLife: getDuration("MYSQL_MAX_LIFE", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		HTTPHost: getEnv("HTTP_HOST", "127.0.0.1"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if n, err := strconv.Atoi(value); err == nil {
			// Bare numbers are seconds.
			return time.Duration(n) * time.Second
		}
	}
	return defaultValue
}
