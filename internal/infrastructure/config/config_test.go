package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a developer .env out of the test

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port=%d, want 3000", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendJSON || cfg.Store.Path != "./db.json" {
		t.Errorf("store=%+v", cfg.Store)
	}
	if cfg.Payment.Provider != ProviderSimulated || cfg.Payment.Currency != "usd" {
		t.Errorf("payment=%+v", cfg.Payment)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("rate limit window=%v", cfg.Security.RateLimitWindow)
	}
	if cfg.AdminEnabled() {
		t.Errorf("admin login should be disabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/eco.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port=%d", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Database.SQLitePath != "/tmp/eco.db" {
		t.Errorf("store=%+v db=%+v", cfg.Store, cfg.Database)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("level=%s", cfg.Logger.Level)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 3000},
			Store:   StoreConfig{Backend: BackendJSON, Path: "db.json"},
			Payment: PaymentConfig{Provider: ProviderSimulated},
			JWT:     JWTConfig{Secret: placeholderJWTSecret},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server port"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mongo" }, "unknown store backend"},
		{"json without path", func(c *Config) { c.Store.Path = "" }, "store path"},
		{"postgres without host", func(c *Config) { c.Store.Backend = BackendPostgres }, "database host"},
		{"stripe without key", func(c *Config) { c.Payment.Provider = ProviderStripe }, "stripe secret key"},
		{"unknown provider", func(c *Config) { c.Payment.Provider = "paypal" }, "unknown payment provider"},
		{"admin with placeholder secret", func(c *Config) { c.Admin.PasswordHash = "$2a$10$x" }, "JWT secret"},
		{"admin with secret", func(c *Config) {
			c.Admin.PasswordHash = "$2a$10$x"
			c.JWT.Secret = "s3cret"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err=%v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAddrHelpers(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if s.GetAddr() != "127.0.0.1:3000" {
		t.Errorf("server addr=%s", s.GetAddr())
	}
	r := RedisConfig{Host: "cache", Port: 6380}
	if r.GetAddr() != "cache:6380" {
		t.Errorf("redis addr=%s", r.GetAddr())
	}
}
