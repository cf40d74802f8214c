package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	API   API   `yaml:"api"`
	Store Store `yaml:"store"`
	Cart  Cart  `yaml:"cart"`

	OTelEnabled bool `yaml:"otel_enabled"`
	HTTPPort    int  `yaml:"http_port"`
}

type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Store selects the local persistence backend and the keys the session and
// cart state live under.
type Store struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	Namespace string `yaml:"namespace"`

	TokenKey string `yaml:"token_key"`
	UserKey  string `yaml:"user_key"`
	CartKey  string `yaml:"cart_key"`
}

type Cart struct {
	PlaceholderImage string `yaml:"placeholder_image"`
	RefreshLimit     int    `yaml:"refresh_limit"`
}

func Default() Config {
	return Config{
		AppEnv:   "dev",
		LogLevel: "info",
		API: API{
			BaseURL: "http://localhost:5000",
			Timeout: 15 * time.Second,
		},
		Store: Store{
			Driver:    "sqlite",
			DSN:       defaultStorePath(),
			Namespace: "storefront",
			TokenKey:  "authToken",
			UserKey:   "authUser",
			CartKey:   "ysj_cart",
		},
		Cart: Cart{
			PlaceholderImage: "/img/placeholder.png",
			RefreshLimit:     8,
		},
		HTTPPort: 5000,
	}
}

// Load starts from Default, applies the YAML file named by STOREFRONT_CONFIG
// when set, then lets environment variables override individual values.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.API.BaseURL = strings.TrimRight(getEnv("API_BASE_URL", cfg.API.BaseURL), "/")
	cfg.API.Timeout = getEnvDuration("API_TIMEOUT", cfg.API.Timeout)
	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = getEnv("STORE_DSN", cfg.Store.DSN)
	cfg.Store.Namespace = getEnv("STORE_NAMESPACE", cfg.Store.Namespace)
	cfg.Store.TokenKey = getEnv("TOKEN_KEY", cfg.Store.TokenKey)
	cfg.Store.UserKey = getEnv("USER_KEY", cfg.Store.UserKey)
	cfg.Store.CartKey = getEnv("CART_KEY", cfg.Store.CartKey)
	cfg.Cart.PlaceholderImage = getEnv("CART_PLACEHOLDER_IMAGE", cfg.Cart.PlaceholderImage)
	cfg.Cart.RefreshLimit = getEnvInt("CART_REFRESH_LIMIT", cfg.Cart.RefreshLimit)
	cfg.OTelEnabled = getEnvBool("OTEL_ENABLED", cfg.OTelEnabled)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return filepath.Join(dir, "honey-storefront", "state.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

// getEnvDuration accepts Go durations ("15s") or a bare number of milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
