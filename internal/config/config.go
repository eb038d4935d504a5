package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the kereso server configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	LLM       LLMConfig       `yaml:"llm"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings for the admin routes.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// Disabled opens the topic routes without keys. Local development only.
	Disabled bool `yaml:"disabled"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// TrustProxy takes client addresses from X-Forwarded-For (behind a reverse proxy).
	TrustProxy bool `yaml:"trust_proxy"`
}

// DatabaseConfig holds the corpus database settings.
type DatabaseConfig struct {
	DSN              string      `yaml:"dsn"`
	MaxConns         int32       `yaml:"max_conns"`
	RowLimit         int         `yaml:"row_limit"`
	ReadinessTimeout int         `yaml:"readiness_timeout_sec"`
	Posts            TableConfig `yaml:"posts"`
	Products         TableConfig `yaml:"products"`
}

// TableConfig points a collection at its table.
type TableConfig struct {
	Name    string `yaml:"name"`
	OrderBy string `yaml:"order_by"`
	Where   string `yaml:"where"`
}

// CacheConfig holds the response cache settings (Redis or Valkey).
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// SearchConfig holds ranking and result shaping settings.
type SearchConfig struct {
	DefaultLimit      int          `yaml:"default_limit"`
	PageLimit         int          `yaml:"page_limit"`
	EditDistance      *bool        `yaml:"edit_distance"` // default: true
	RulesPath         string       `yaml:"rules_path"`    // empty: embedded Hungarian rules
	ExpanderCacheSize int          `yaml:"expander_cache_size"`
	BaseURL           string       `yaml:"base_url"`
	PostPrefix        string       `yaml:"post_prefix"`
	ProductPrefix     string       `yaml:"product_prefix"`
	PostFields        FieldsConfig `yaml:"post_fields"`
	ProductFields     FieldsConfig `yaml:"product_fields"`
}

// EditDistanceEnabled reports whether fuzzy edit-distance matching is on.
func (s SearchConfig) EditDistanceEnabled() bool {
	return s.EditDistance == nil || *s.EditDistance
}

// FieldsConfig overrides the column names read for each candidate attribute.
// Empty lists keep the built-in defaults.
type FieldsConfig struct {
	ID      []string `yaml:"id"`
	Title   []string `yaml:"title"`
	Slug    []string `yaml:"slug"`
	Excerpt []string `yaml:"excerpt"`
	Body    []string `yaml:"body"`
}

// RateLimitConfig holds the per-client token bucket for /api routes.
type RateLimitConfig struct {
	RPS     float64 `yaml:"rps"` // 0 = disabled
	Burst   int     `yaml:"burst"`
	Clients int     `yaml:"clients"` // tracked client addresses
}

// LLMConfig holds the chat provider used for topic discovery.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"` // empty = discovery disabled
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 4
	}
	if c.Database.RowLimit <= 0 {
		c.Database.RowLimit = 2000
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.Posts.Name == "" {
		c.Database.Posts.Name = "posts"
	}
	if c.Database.Products.Name == "" {
		c.Database.Products.Name = "products"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 5
	}
	if c.Search.PageLimit <= 0 {
		c.Search.PageLimit = 5
	}
	if c.Search.ExpanderCacheSize <= 0 {
		c.Search.ExpanderCacheSize = 4096
	}
	if c.Search.PostPrefix == "" {
		c.Search.PostPrefix = "/blog"
	}
	if c.Search.ProductPrefix == "" {
		c.Search.ProductPrefix = "/termek"
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 10
	}
	if c.RateLimit.Clients <= 0 {
		c.RateLimit.Clients = 10000
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}

	// An unset ${VAR} expands to an empty list item.
	keys := c.Auth.APIKeys[:0]
	for _, k := range c.Auth.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Auth.APIKeys = keys
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.Search.DefaultLimit > 10 {
		return fmt.Errorf("search.default_limit must be at most 10, got %d", c.Search.DefaultLimit)
	}
	if c.Search.PageLimit > 10 {
		return fmt.Errorf("search.page_limit must be at most 10, got %d", c.Search.PageLimit)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative, got %v", c.RateLimit.RPS)
	}
	if len(c.Auth.APIKeys) == 0 && !c.Auth.Disabled {
		return fmt.Errorf("auth.api_keys is required unless auth.disabled is set")
	}
	if c.Auth.Disabled && c.LLM.APIKey != "" {
		return fmt.Errorf("auth.disabled cannot be combined with llm.api_key")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
