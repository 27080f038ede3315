package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/locator/provider"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func validConfig() Config {
	cfg := Config{
		ServiceConfig: ServiceConfig{Name: "locatordemo", Environment: "staging"},
		Demo:          DemoConfig{JWTSecret: "0123456789abcdef"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name 'svc', got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("version defaults to build identity", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Version == "" {
			t.Error("expected a default version")
		}

		pinned := ServiceConfig{Name: "svc", Version: "1.4.0"}
		pinned.ApplyDefaults()
		if pinned.Version != "1.4.0" {
			t.Errorf("expected configured version to win, got %q", pinned.Version)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Locator.Locking != "mutex" {
		t.Errorf("expected default locking 'mutex', got %q", cfg.Locator.Locking)
	}
	if cfg.Locator.AsyncLogBuffer != 256 {
		t.Errorf("expected async buffer 256, got %d", cfg.Locator.AsyncLogBuffer)
	}
	if cfg.Observability.ExportInterval != 15*time.Second {
		t.Errorf("expected export interval 15s, got %v", cfg.Observability.ExportInterval)
	}
	if cfg.Observability.Endpoint != "" {
		t.Errorf("expected no endpoint while disabled, got %q", cfg.Observability.Endpoint)
	}
	if cfg.Demo.Addr != ":8080" || cfg.Demo.Issuer != "locatordemo" {
		t.Errorf("unexpected demo defaults: %+v", cfg.Demo)
	}

	enabled := Config{Observability: ObservabilityConfig{Enabled: true}}
	enabled.ApplyDefaults()
	if enabled.Observability.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", enabled.Observability.Endpoint)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "name: is required"},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, "environment: must be one of"},
		{"unknown locking", func(c *Config) { c.Locator.Locking = "spin" }, "locator.locking: must be one of: mutex semaphore queue"},
		{"zero buffer", func(c *Config) { c.Locator.AsyncLogBuffer = -1 }, "locator.async_log_buffer"},
		{"sample rate above one", func(c *Config) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
		{"bad endpoint", func(c *Config) { c.Observability.Endpoint = "not an address" }, "observability.endpoint"},
		{"short secret", func(c *Config) { c.Demo.JWTSecret = "short" }, "demo.jwt_secret"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestLockingStrategy(t *testing.T) {
	if got := (LocatorConfig{Locking: "queue"}).LockingStrategy(); got != provider.LockQueue {
		t.Errorf("expected queue, got %v", got)
	}
	if got := (LocatorConfig{Locking: "bogus"}).LockingStrategy(); got != provider.LockMutex {
		t.Errorf("expected mutex fallback, got %v", got)
	}
}

func TestLoadWithYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", `
name: locatordemo
environment: staging
locator:
  locking: semaphore
  async_log_buffer: 64
observability:
  enabled: true
  export_interval: 5s
demo:
  jwt_secret: from-yaml-0123456789
`)
	envPath := writeFile(t, dir, ".env", "DEMO_ADDR=:9090\n")
	t.Setenv("LOCATOR_LOCKING", "queue")
	t.Cleanup(func() { os.Unsetenv("DEMO_ADDR") })

	cfg, err := Load("locatordemo", WithConfigFile(configPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "locatordemo" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Locator.Locking != "queue" {
		t.Errorf("expected env override 'queue', got %q", cfg.Locator.Locking)
	}
	if cfg.Locator.AsyncLogBuffer != 64 {
		t.Errorf("expected buffer 64, got %d", cfg.Locator.AsyncLogBuffer)
	}
	if cfg.Observability.ExportInterval != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Observability.ExportInterval)
	}
	if cfg.Observability.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Observability.Endpoint)
	}
	if cfg.Demo.Addr != ":9090" {
		t.Errorf("expected addr from .env, got %q", cfg.Demo.Addr)
	}
}

func TestLoadFailsValidation(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "name: locatordemo\n")

	_, err := Load("locatordemo", WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err == nil || !strings.Contains(err.Error(), "demo.jwt_secret") {
		t.Fatalf("expected jwt secret validation error, got %v", err)
	}
}

func TestLoadConfigWithDefaults(t *testing.T) {
	type section struct {
		Size int `mapstructure:"size"`
	}
	type custom struct {
		Pool section `mapstructure:"pool"`
	}

	var cfg custom
	err := LoadConfig("custom", &cfg,
		WithConfigFile("/nonexistent/config.yml"),
		WithEnvFile("/nonexistent/.env"),
		WithDefaults(map[string]any{"pool.size": 8}))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pool.Size != 8 {
		t.Errorf("expected default 8, got %d", cfg.Pool.Size)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"../cmd/my-svc/config.yml": true,
		"./config/.env":            true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "../cmd/my-svc/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./config/.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}

	explicit := (&Resolver{FileSystem: fs}).ResolveFiles("my-svc", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if explicit.ConfigFile != "a.yml" || explicit.EnvFile != "b.env" {
		t.Errorf("explicit paths not kept: %+v", explicit)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error { return nil }

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("LOCATOR_ASYNC_LOG_BUFFER")
	for _, want := range []string{
		"locator_async_log_buffer",
		"locator.async.log.buffer",
		"locator.async_log_buffer",
	} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}

	if got := envKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("unexpected single-part variants %v", got)
	}
}
