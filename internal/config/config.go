package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "local-dev-secret-change-me"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the service configuration. Every key maps to an upper-cased
// environment variable (db_dsn -> DB_DSN) and may also come from config.yaml.
type Config struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	DBDriver        string        `mapstructure:"db_driver"`
	DBDSN           string        `mapstructure:"db_dsn"`
	PredictionDelay time.Duration `mapstructure:"prediction_delay"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	JWTIssuer       string        `mapstructure:"jwt_issuer"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	StatsCron       string        `mapstructure:"stats_cron"`
	SeedOnEmpty     bool          `mapstructure:"seed_on_empty"`
	SeedCount       int           `mapstructure:"seed_count"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "local")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "crime_insights.db")
	v.SetDefault("prediction_delay", 1500*time.Millisecond)
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_issuer", "crime-insights")
	v.SetDefault("cache_ttl", time.Minute)
	v.SetDefault("stats_cron", "@every 5m")
	v.SetDefault("seed_on_empty", true)
	v.SetDefault("seed_count", 150)
	v.SetDefault("max_upload_bytes", int64(5<<20))
}

// Load reads .env (if present), an optional config.yaml and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // loads .env

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", ErrInvalidConfig, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("%w: DB_DSN is required", ErrInvalidConfig)
	}
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is required", ErrInvalidConfig)
	}
	if c.PredictionDelay < 0 {
		return fmt.Errorf("%w: PREDICTION_DELAY must not be negative", ErrInvalidConfig)
	}
	if c.SeedCount <= 0 {
		return fmt.Errorf("%w: SEED_COUNT must be positive", ErrInvalidConfig)
	}
	if c.Environment == "production" && (c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 16) {
		return fmt.Errorf("%w: JWT_SECRET must be set to a strong value in production", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
