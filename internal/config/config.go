package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"
)

const (
	DriverSurreal  = "surreal"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	FrontendUrl string `yaml:"frontend_url"`
	AdminSecret string `yaml:"admin_secret"`

	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	Session  Session  `yaml:"session"`
	Auth     Auth     `yaml:"auth"`
}

type Database struct {
	Driver      string `yaml:"driver"`
	Url         string `yaml:"url"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Namespace   string `yaml:"namespace"`
	Name        string `yaml:"name"`
	PostgresDsn string `yaml:"postgres_dsn"`
}

type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type Session struct {
	Secret string `yaml:"secret"`
	MaxAge int    `yaml:"max_age"`
	Secure bool   `yaml:"secure"`
}

type Auth struct {
	GoogleKey     string `yaml:"google_key"`
	GoogleSecret  string `yaml:"google_secret"`
	DiscordKey    string `yaml:"discord_key"`
	DiscordSecret string `yaml:"discord_secret"`
	CallbackUrl   string `yaml:"callback_url"`
	WebhookSecret string `yaml:"webhook_secret"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load builds the configuration from defaults, then the YAML file at path if
// it exists, then environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			file, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:        8080,
		Environment: "development",
		FrontendUrl: "http://localhost:5173",
		Database: Database{
			Driver:    DriverSurreal,
			Url:       "ws://localhost:8000/rpc",
			Namespace: "hudori",
			Name:      "hudori",
		},
		Log: Log{
			Level:  "info",
			Pretty: true,
		},
		Session: Session{
			MaxAge: 86400 * 30,
		},
		Auth: Auth{
			CallbackUrl: "http://localhost:8080/auth",
		},
	}
}

func loadFromEnv(cfg *Config) error {
	port, err := getEnvAsInt("PORT", cfg.Port)
	if err != nil {
		return err
	}
	cfg.Port = port
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.FrontendUrl = getEnv("FRONTEND_URL", cfg.FrontendUrl)
	cfg.AdminSecret = getEnv("ADMIN_SECRET", cfg.AdminSecret)

	cfg.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", cfg.Database.Driver))
	cfg.Database.Url = getEnv("DB_URL", cfg.Database.Url)
	cfg.Database.Username = getEnv("DB_USERNAME", cfg.Database.Username)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Namespace = getEnv("DB_NAMESPACE", cfg.Database.Namespace)
	cfg.Database.Name = getEnv("DB_DATABASE", cfg.Database.Name)
	cfg.Database.PostgresDsn = getEnv("POSTGRES_DSN", cfg.Database.PostgresDsn)

	cfg.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", cfg.Log.Level))
	if cfg.Log.Pretty, err = getEnvAsBool("LOG_PRETTY", cfg.Log.Pretty); err != nil {
		return err
	}

	cfg.Session.Secret = getEnv("SESSION_SECRET", cfg.Session.Secret)
	if cfg.Session.MaxAge, err = getEnvAsInt("SESSION_MAX_AGE", cfg.Session.MaxAge); err != nil {
		return err
	}
	if cfg.Session.Secure, err = getEnvAsBool("SESSION_SECURE", cfg.Session.Secure); err != nil {
		return err
	}

	cfg.Auth.GoogleKey = getEnv("GOOGLE_KEY", cfg.Auth.GoogleKey)
	cfg.Auth.GoogleSecret = getEnv("GOOGLE_SECRET", cfg.Auth.GoogleSecret)
	cfg.Auth.DiscordKey = getEnv("DISCORD_KEY", cfg.Auth.DiscordKey)
	cfg.Auth.DiscordSecret = getEnv("DISCORD_SECRET", cfg.Auth.DiscordSecret)
	cfg.Auth.CallbackUrl = getEnv("AUTH_CALLBACK_URL", cfg.Auth.CallbackUrl)
	cfg.Auth.WebhookSecret = getEnv("WEBHOOK_SECRET", cfg.Auth.WebhookSecret)

	return nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}

	switch c.Database.Driver {
	case DriverSurreal:
		if c.Database.Url == "" {
			return fmt.Errorf("database url is required for the surreal driver")
		}
		if c.Database.Namespace == "" || c.Database.Name == "" {
			return fmt.Errorf("database namespace and name are required for the surreal driver")
		}
	case DriverPostgres:
		if c.Database.PostgresDsn == "" {
			return fmt.Errorf("postgres dsn is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if c.IsProduction() && c.Session.Secret == "" {
		return fmt.Errorf("session secret is required in production")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
