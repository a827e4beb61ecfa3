package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tonghaoch/storefront-relay-go/internal/api"
)

// Config is the process configuration, read once from the environment.
type Config struct {
	Chat   ChatConfig
	Orders OrdersConfig
	Server ServerConfig
}

// ChatConfig configures the chat relay.
type ChatConfig struct {
	APIKey         string
	BaseURL        string
	APIVersion     string
	AllowedOrigins []string
}

// OrdersConfig configures the order lookup.
type OrdersConfig struct {
	StoreDomain    string
	AdminToken     string
	APIVersion     string
	BaseURL        string
	AllowedOrigins []string
}

// ServerConfig configures the local server.
type ServerConfig struct {
	Port    int
	Verbose bool
	LogDir  string
}

// Default allow-lists used when no *_ALLOWED_ORIGINS variable is set.
var (
	defaultChatOrigins = []string{
		"https://lykyn.com",
		"https://a499ce-5.myshopify.com",
	}
	defaultOrderOrigins = []string{
		"https://www.coracaoconfections.com",
		"https://coracao-confections-2.myshopify.com",
	}
)

var bindings = map[string]string{
	"chat.api_key":           "ANTHROPIC_API_KEY",
	"chat.base_url":          "ANTHROPIC_BASE_URL",
	"chat.api_version":       "ANTHROPIC_VERSION",
	"chat.allowed_origins":   "CHAT_ALLOWED_ORIGINS",
	"orders.store_domain":    "SHOPIFY_STORE_DOMAIN",
	"orders.admin_token":     "SHOPIFY_ADMIN_API_TOKEN",
	"orders.api_version":     "SHOPIFY_API_VERSION",
	"orders.base_url":        "SHOPIFY_BASE_URL",
	"orders.allowed_origins": "ORDER_ALLOWED_ORIGINS",
	"server.port":            "PORT",
	"server.verbose":         "RELAY_VERBOSE",
	"server.log_dir":         "RELAY_LOG_DIR",
}

// Load reads optional dotenv files (default .env) and then the environment.
// Missing credentials are not an error; handlers report them per request.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		slog.Debug("loaded env file", "path", f)
	}
	return FromEnv(), nil
}

// FromEnv reads the configuration from process environment variables only.
func FromEnv() *Config {
	v := viper.New()
	for key, env := range bindings {
		v.MustBindEnv(key, env)
	}
	v.SetDefault("chat.base_url", api.DefaultAnthropicBaseURL)
	v.SetDefault("chat.api_version", api.DefaultAnthropicVersion)
	v.SetDefault("orders.api_version", api.DefaultShopifyVersion)
	v.SetDefault("server.port", 3000)

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Chat: ChatConfig{
			APIKey:         strings.TrimSpace(v.GetString("chat.api_key")),
			BaseURL:        strings.TrimRight(v.GetString("chat.base_url"), "/"),
			APIVersion:     v.GetString("chat.api_version"),
			AllowedOrigins: originList(v.GetString("chat.allowed_origins"), defaultChatOrigins),
		},
		Orders: OrdersConfig{
			StoreDomain:    strings.TrimSpace(v.GetString("orders.store_domain")),
			AdminToken:     strings.TrimSpace(v.GetString("orders.admin_token")),
			APIVersion:     v.GetString("orders.api_version"),
			BaseURL:        strings.TrimRight(v.GetString("orders.base_url"), "/"),
			AllowedOrigins: originList(v.GetString("orders.allowed_origins"), defaultOrderOrigins),
		},
		Server: ServerConfig{
			Port:    v.GetInt("server.port"),
			Verbose: v.GetBool("server.verbose"),
			LogDir:  v.GetString("server.log_dir"),
		},
	}
}

// originList splits a comma separated list, falling back to defaults when unset.
func originList(raw string, defaults []string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), defaults...)
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
