package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Geofence  GeofenceConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the driver ("sqlite" or "postgres") and its DSN
type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret string
	Issuer string // empty accepts any issuer
}

// GeofenceConfig controls station matching
type GeofenceConfig struct {
	ThresholdMeters float64
	EarthRadiusKm   float64
}

type LoggingConfig struct {
	Level  string
	Format string // json or console
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// NATSConfig enables event publishing when URL is set
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ListenAddr returns the address the HTTP server binds to
func (c *Config) ListenAddr() string {
	if strings.HasPrefix(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// Load reads configuration from defaults, an optional config.yaml, a .env file
// and EOLOS_* environment variables, in increasing priority.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("EOLOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms
	_ = v.BindEnv("server.port", "EOLOS_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.dsn", "EOLOS_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("jwt.secret", "EOLOS_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("nats.url", "EOLOS_NATS_URL", "NATS_URL")

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", "15s")
	v.SetDefault("server.writeTimeout", "15s")
	v.SetDefault("server.shutdownTimeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/eolos.db")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 5)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "")

	v.SetDefault("geofence.thresholdMeters", 50.0)
	v.SetDefault("geofence.earthRadiusKm", 6371.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subjectPrefix", "eolos")

	v.SetDefault("rateLimit.requests", 120)
	v.SetDefault("rateLimit.window", "1m")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("database.driver")),
			DSN:          v.GetString("database.dsn"),
			MaxOpenConns: v.GetInt("database.maxOpenConns"),
			MaxIdleConns: v.GetInt("database.maxIdleConns"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Geofence: GeofenceConfig{
			ThresholdMeters: v.GetFloat64("geofence.thresholdMeters"),
			EarthRadiusKm:   v.GetFloat64("geofence.earthRadiusKm"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
		NATS: NATSConfig{
			URL:           v.GetString("nats.url"),
			SubjectPrefix: v.GetString("nats.subjectPrefix"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rateLimit.requests"),
			Window:   v.GetDuration("rateLimit.window"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (set EOLOS_JWT_SECRET or JWT_SECRET)")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.Geofence.ThresholdMeters <= 0 {
		return fmt.Errorf("geofence threshold must be positive, got %v", c.Geofence.ThresholdMeters)
	}
	if c.Geofence.EarthRadiusKm <= 0 {
		return fmt.Errorf("earth radius must be positive, got %v", c.Geofence.EarthRadiusKm)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit requests and window must be positive")
	}
	return nil
}
