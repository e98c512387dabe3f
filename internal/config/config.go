package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"port"`
	GinMode       string `mapstructure:"gin_mode"`
	DBDriver      string `mapstructure:"db_driver"`
	DBHost        string `mapstructure:"db_host"`
	DBPort        string `mapstructure:"db_port"`
	DBUser        string `mapstructure:"db_user"`
	DBPassword    string `mapstructure:"db_password"`
	DBName        string `mapstructure:"db_name"`
	DBSSLMode     string `mapstructure:"db_sslmode"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	JWTIssuer     string `mapstructure:"jwt_issuer"`
	JWTAudience   string `mapstructure:"jwt_audience"`
	JWTExpiryMins int    `mapstructure:"jwt_expiry_minutes"`
	SessionSecret string `mapstructure:"session_secret"`
	SessionStore  string `mapstructure:"session_store"`
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	CORSOrigins   string `mapstructure:"cors_origins"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
}

var defaults = map[string]interface{}{
	"port":               "8080",
	"gin_mode":           "debug",
	"db_driver":          "postgres",
	"db_host":            "localhost",
	"db_port":            "5432",
	"db_user":            "pmuser",
	"db_password":        "pmpassword",
	"db_name":            "project_management",
	"db_sslmode":         "disable",
	"sqlite_path":        "project_management.db",
	"jwt_secret":         "default-jwt-secret-change-me-please",
	"jwt_issuer":         "project-management-api",
	"jwt_audience":       "project-management-client",
	"jwt_expiry_minutes": 1440,
	"session_secret":     "default-secret-key-change-me",
	"session_store":      "cookie",
	"redis_host":         "localhost",
	"redis_port":         "6379",
	"redis_password":     "",
	"cors_origins":       "http://localhost:5173",
	"openai_api_key":     "",
	"openai_model":       "gpt-4o",
}

// Load reads configuration from an optional YAML file, a .env file and the
// process environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "cookie", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.JWTExpiryMins <= 0 {
		return errors.New("JWT_EXPIRY_MINUTES must be positive")
	}
	return nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryMins) * time.Minute
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
