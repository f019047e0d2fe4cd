package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/vmotion/repairshop-api/logging"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"` // postgres or sqlite
	Port           string `env:"PORT" envDefault:"8080"`
	GoEnv          string `env:"GO_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"repairshop-api"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"repairshop-clients"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	SeedKey     string        `env:"SEED_KEY"`

	PhotoStorage     string `env:"PHOTO_STORAGE" envDefault:"local"` // local or s3
	UploadDir        string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	PhotoMimeProfile string `env:"PHOTO_MIME_PROFILE" envDefault:"extended"` // standard or extended

	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSS3Bucket        string `env:"AWS_S3_BUCKET"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	KafkaBrokers          []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrderEventsTopic string   `env:"KAFKA_ORDER_EVENTS_TOPIC" envDefault:"order-events"`

	RedisAddr    string        `env:"REDIS_ADDR"`
	ShopCacheTTL time.Duration `env:"SHOP_CACHE_TTL" envDefault:"5m"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", goEnv)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			logging.L().Infof("No .env file found, using system environment variables")
		}
	} else {
		logging.L().Infof("Loaded configuration from %s", envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver)
	}
	switch c.PhotoStorage {
	case "local":
	case "s3":
		if c.AWSS3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when PHOTO_STORAGE=s3")
		}
	default:
		return fmt.Errorf("PHOTO_STORAGE must be local or s3, got %q", c.PhotoStorage)
	}
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// KafkaEnabled reports whether order events should be published
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
