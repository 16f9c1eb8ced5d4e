package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-yaml"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Server struct {
		Port       string `yaml:"port"`
		Mode       string `yaml:"mode"`
		CORSOrigin string `yaml:"cors_origin"`
		LogLevel   string `yaml:"log_level"`
	} `yaml:"server"`
	Store struct {
		Driver   string `yaml:"driver"`
		URI      string `yaml:"uri"`
		Host     string `yaml:"host"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"store"`
	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	Payment struct {
		SecretKey string `yaml:"secret_key"`
		Currency  string `yaml:"currency"`
	} `yaml:"payment"`
	Admin struct {
		ID string `yaml:"id"`
	} `yaml:"admin"`
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config/envs/<env>.yaml and applies environment overrides.
// A missing file is not an error: the service can run purely on environment
// variables in containers.
func Load(env string) (*Config, error) {
	if env == "" {
		env = "local"
	}

	cfg, err := LoadFile(filepath.Join("config", "envs", env+".yaml"))
	if err != nil {
		return nil, err
	}

	slog.Info("loaded configuration", slog.String("env", env))
	return cfg, nil
}

// LoadFile is Load with an explicit path.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// env only
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origin := os.Getenv("CORS_ALLOWED_ORIGIN"); origin != "" {
		c.Server.CORSOrigin = origin
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Server.LogLevel = level
	}

	// Store
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Store.URI = uri
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Store.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		c.Store.User = user
	}
	if password := os.Getenv("DB_PASS"); password != "" {
		c.Store.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		c.Store.Database = name
	}

	if secret := os.Getenv("ACCESS_SECRET_TOKEN"); secret != "" {
		c.JWT.Secret = secret
	}
	if key := os.Getenv("PAYMENT_SECRET_KEY"); key != "" {
		c.Payment.SecretKey = key
	}
	if currency := os.Getenv("PAYMENT_CURRENCY"); currency != "" {
		c.Payment.Currency = currency
	}
	if id := os.Getenv("ADMIN_ID"); id != "" {
		c.Admin.ID = id
	}

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			c.Telegram.ChatID = id
		} else {
			slog.Warn("ignoring invalid TELEGRAM_CHAT_ID", slog.String("value", chatID))
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMongo
	}
	if c.Store.Host == "" {
		c.Store.Host = "cluster0.ctziwlh.mongodb.net"
	}
	if c.Store.Database == "" {
		c.Store.Database = "inventoryDB"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "usd"
	}
}

// MongoURI returns the configured URI, or builds an SRV URI from the
// credentials when none is set.
func (c *Config) MongoURI() string {
	if c.Store.URI != "" {
		return c.Store.URI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.Store.User, c.Store.Password),
		Host:     c.Store.Host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// Validate reports every required setting that is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.JWT.Secret == "" {
		missing = append(missing, "ACCESS_SECRET_TOKEN")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverMongo:
		if c.Store.URI == "" && (c.Store.User == "" || c.Store.Password == "") {
			missing = append(missing, "MONGO_URI or DB_USER/DB_PASS")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required configuration is not set: %v", missing)
	}
	return nil
}
