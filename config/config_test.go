package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.QueuePrefix != "A" {
		t.Errorf("expected default prefix A, got %q", cfg.QueuePrefix)
	}
	if cfg.DefaultMaxQuota != 50 {
		t.Errorf("expected default quota 50, got %d", cfg.DefaultMaxQuota)
	}
	if cfg.JWTTTL != 12*time.Hour {
		t.Errorf("expected JWT TTL 12h, got %s", cfg.JWTTTL)
	}
	if !cfg.IsDev() {
		t.Error("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia")
	t.Setenv("PORT", "9090")
	t.Setenv("QUEUE_PREFIX", " b ")
	t.Setenv("DEFAULT_MAX_QUOTA", "20")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Addr())
	}
	if cfg.QueuePrefix != "B" {
		t.Errorf("expected prefix B, got %q", cfg.QueuePrefix)
	}
	if cfg.DefaultMaxQuota != 20 {
		t.Errorf("expected quota 20, got %d", cfg.DefaultMaxQuota)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.local" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET_KEY")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		AppEnv:          "development",
		DBHost:          "localhost",
		DBName:          "poliklinik",
		JWTSecret:       "x",
		JWTTTL:          time.Hour,
		Timezone:        "Asia/Jakarta",
		QueuePrefix:     "A",
		DefaultMaxQuota: 10,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]func(c *Config){
		"production tanpa password": func(c *Config) { c.AppEnv = "production" },
		"kuota nol":                 func(c *Config) { c.DefaultMaxQuota = 0 },
		"prefix kosong":             func(c *Config) { c.QueuePrefix = "" },
		"timezone salah":            func(c *Config) { c.Timezone = "Mars/Olympus" },
		"ttl nol":                   func(c *Config) { c.JWTTTL = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfig_Once(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia")

	first, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7070")
	second, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if first != second || second.Port == "7070" {
		t.Errorf("LoadConfig must load once, got %p/%p port %s", first, second, second.Port)
	}
}
