package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// DBDriver is "postgres" or "sqlite". DBName is the file path for sqlite.
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"events"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTAccessSecret    string `env:"JWT_ACCESS_SECRET" envDefault:"change-me-access"`
	JWTRefreshSecret   string `env:"JWT_REFRESH_SECRET" envDefault:"change-me-refresh"`
	JWTAccessTTLHours  int    `env:"JWT_ACCESS_TTL_HOURS" envDefault:"1"`
	JWTRefreshTTLHours int    `env:"JWT_REFRESH_TTL_HOURS" envDefault:"168"`

	// ✅ Redis Config (token store). Empty address falls back to memory.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// ✅ Kafka Config (activity feed). No brokers means direct delivery.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"event-activity"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"event-notifications"`

	// ✅ FCM Config (push). Empty path leaves push disabled.
	FCMCredentialsPath string `env:"FCM_CREDENTIALS_PATH"`
	FCMProjectID       string `env:"FCM_PROJECT_ID"`

	RateLimitPerMinute int64    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`

	// ✅ Access policy toggles
	ReviewRequiresAttendance bool `env:"POLICY_REVIEW_REQUIRES_ATTENDANCE" envDefault:"false"`
	OpenPrivateRSVP          bool `env:"POLICY_OPEN_PRIVATE_RSVP" envDefault:"false"`

	// ✅ Bootstrap admin, seeded when both are set
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// ✅ SMTP Config
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPFromName  string `env:"SMTP_FROM_NAME" envDefault:"Event Manager"`
	SMTPFromEmail string `env:"SMTP_FROM_EMAIL"`
	ResetURLBase  string `env:"RESET_URL_BASE" envDefault:"http://localhost:5173/reset-password"`
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}
	return FromEnv()
}

// FromEnv parses the current environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTAccessTTLHours <= 0 || cfg.JWTRefreshTTLHours <= 0 {
		return nil, fmt.Errorf("JWT TTLs must be positive")
	}
	return &cfg, nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLHours) * time.Hour
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWTRefreshTTLHours) * time.Hour
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
