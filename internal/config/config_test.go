package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://localhost/kereso"},
		Auth:     AuthConfig{APIKeys: []string{"admin-key"}},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{
			name:   "invalid port",
			modify: func(c *Config) { c.HTTP.Port = 0 },
			want:   "http.port must be between 1 and 65535, got 0",
		},
		{
			name:   "missing dsn",
			modify: func(c *Config) { c.Database.DSN = "" },
			want:   "database.dsn is required",
		},
		{
			name:   "cache without addrs",
			modify: func(c *Config) { c.Cache.Enabled = true },
			want:   "cache.addrs is required when cache is enabled",
		},
		{
			name:   "default limit over cap",
			modify: func(c *Config) { c.Search.DefaultLimit = 11 },
			want:   "search.default_limit must be at most 10, got 11",
		},
		{
			name:   "page limit over cap",
			modify: func(c *Config) { c.Search.PageLimit = 20 },
			want:   "search.page_limit must be at most 10, got 20",
		},
		{
			name:   "negative rps",
			modify: func(c *Config) { c.RateLimit.RPS = -1 },
			want:   "rate_limit.rps must not be negative, got -1",
		},
		{
			name:   "no api keys",
			modify: func(c *Config) { c.Auth.APIKeys = nil },
			want:   "auth.api_keys is required unless auth.disabled is set",
		},
		{
			name: "auth disabled with llm key",
			modify: func(c *Config) {
				c.Auth = AuthConfig{Disabled: true}
				c.LLM.APIKey = "sk-test"
			},
			want: "auth.disabled cannot be combined with llm.api_key",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tc.want {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tc.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.RowLimit != 2000 {
		t.Errorf("expected RowLimit=2000, got %d", cfg.Database.RowLimit)
	}
	if cfg.Database.Posts.Name != "posts" || cfg.Database.Products.Name != "products" {
		t.Errorf("unexpected table names: %q, %q", cfg.Database.Posts.Name, cfg.Database.Products.Name)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("expected TTLSec=300, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Search.DefaultLimit != 5 {
		t.Errorf("expected DefaultLimit=5, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.PageLimit != 5 {
		t.Errorf("expected PageLimit=5, got %d", cfg.Search.PageLimit)
	}
	if !cfg.Search.EditDistanceEnabled() {
		t.Error("expected edit distance on by default")
	}
	if cfg.RateLimit.Burst != 10 {
		t.Errorf("expected Burst=10, got %d", cfg.RateLimit.Burst)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	off := false
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{RowLimit: 500, Posts: TableConfig{Name: "blog.articles"}},
		Search:   SearchConfig{DefaultLimit: 3, EditDistance: &off, PostPrefix: "/cikk"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.RowLimit != 500 {
		t.Errorf("expected RowLimit=500, got %d", cfg.Database.RowLimit)
	}
	if cfg.Database.Posts.Name != "blog.articles" {
		t.Errorf("expected Posts.Name='blog.articles', got %q", cfg.Database.Posts.Name)
	}
	if cfg.Search.DefaultLimit != 3 {
		t.Errorf("expected DefaultLimit=3, got %d", cfg.Search.DefaultLimit)
	}
	if cfg.Search.EditDistanceEnabled() {
		t.Error("expected edit distance off")
	}
	if cfg.Search.PostPrefix != "/cikk" {
		t.Errorf("expected PostPrefix='/cikk', got %q", cfg.Search.PostPrefix)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("KERESO_TEST_DSN", "postgres://db/kereso")

	data := []byte(`
http:
  port: ${KERESO_TEST_PORT:-9090}
database:
  dsn: ${KERESO_TEST_DSN}
auth:
  api_keys: [admin-key]
search:
  edit_distance: false
  post_fields:
    title: [headline]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://db/kereso" {
		t.Errorf("unexpected dsn %q", cfg.Database.DSN)
	}
	if cfg.Search.EditDistanceEnabled() {
		t.Error("expected edit distance off")
	}
	if len(cfg.Search.PostFields.Title) != 1 || cfg.Search.PostFields.Title[0] != "headline" {
		t.Errorf("unexpected post title fields %v", cfg.Search.PostFields.Title)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Fatal("expected validation error for missing dsn")
	}
}

func TestValidate_AuthDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Auth = AuthConfig{Disabled: true}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults_DropsBlankKeys(t *testing.T) {
	cfg := Config{Auth: AuthConfig{APIKeys: []string{"", "  ", "k1"}}}
	cfg.ApplyDefaults()

	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "k1" {
		t.Errorf("expected [k1], got %q", cfg.Auth.APIKeys)
	}
}

func TestParse_ProdRequiresAdminKey(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config", "prod.yaml"))
	if err != nil {
		t.Fatalf("read prod config: %v", err)
	}
	t.Setenv("DATABASE_URL", "postgres://db/kereso")
	t.Setenv("SITE_URL", "https://example.hu")
	t.Setenv("OPENAI_API_KEY", "sk-live")
	t.Setenv("KERESO_ADMIN_KEY", "")

	_, err = Parse(data)
	if err == nil {
		t.Fatal("expected error without an admin key")
	}
	want := "invalid config: auth.api_keys is required unless auth.disabled is set"
	if err.Error() != want {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), want)
	}

	t.Setenv("KERESO_ADMIN_KEY", "prod-secret")
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "prod-secret" {
		t.Errorf("unexpected api keys %q", cfg.Auth.APIKeys)
	}
}
