package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeEnv returns a getenv func backed by a map.
func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromEnvOnly(t *testing.T) {
	loader := NewLoader(t.TempDir(), fakeEnv(map[string]string{
		"DATABRICKS_HOST":       "https://ws.example.com",
		"DATABRICKS_CLUSTER_ID": "c-1",
		"DATABRICKS_TOKEN":      "abc",
	}))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Host != "https://ws.example.com" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.ClusterID != "c-1" {
		t.Errorf("ClusterID = %q", cfg.ClusterID)
	}
	if cfg.Token != "abc" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.Environment != EnvDev {
		t.Errorf("Environment = %q, want %q", cfg.Environment, EnvDev)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want default %s", cfg.Timeout, DefaultTimeout)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %s, want default %s", cfg.PollInterval, DefaultPollInterval)
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "soy.staging.yaml", `
host: https://file.example.com
cluster_id: c-file
token: file-token
timeout: 90s
log_format: json
`)

	loader := NewLoader(dir, fakeEnv(map[string]string{
		"SOY_ENV":          "staging",
		"DATABRICKS_TOKEN": "env-token",
	}))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Host != "https://file.example.com" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, env must override file", cfg.Token)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %s, want 90s", cfg.Timeout)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}

func TestLoadMalformed(t *testing.T) {
	base := map[string]string{
		"DATABRICKS_HOST":       "https://ws.example.com",
		"DATABRICKS_CLUSTER_ID": "c-1",
		"DATABRICKS_TOKEN":      "abc",
	}

	tests := []struct {
		name     string
		mutate   func(map[string]string)
		wantPart string
	}{
		{
			name:     "missing host",
			mutate:   func(m map[string]string) { delete(m, "DATABRICKS_HOST") },
			wantPart: "host",
		},
		{
			name:     "missing credential",
			mutate:   func(m map[string]string) { delete(m, "DATABRICKS_TOKEN") },
			wantPart: "token",
		},
		{
			name:     "missing cluster",
			mutate:   func(m map[string]string) { delete(m, "DATABRICKS_CLUSTER_ID") },
			wantPart: "cluster_id",
		},
		{
			name:     "negative timeout",
			mutate:   func(m map[string]string) { m["SOY_TIMEOUT"] = "-5s" },
			wantPart: "timeout",
		},
		{
			name:     "garbage timeout",
			mutate:   func(m map[string]string) { m["SOY_TIMEOUT"] = "soon" },
			wantPart: "SOY_TIMEOUT",
		},
		{
			name:     "host without scheme",
			mutate:   func(m map[string]string) { m["DATABRICKS_HOST"] = "ws.example.com" },
			wantPart: "host",
		},
		{
			name:     "unknown environment",
			mutate:   func(m map[string]string) { m["SOY_ENV"] = "qa" },
			wantPart: "SOY_ENV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := make(map[string]string, len(base))
			for k, v := range base {
				vars[k] = v
			}
			tt.mutate(vars)

			_, err := NewLoader(t.TempDir(), fakeEnv(vars)).Load()
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Load error = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.wantPart {
				t.Errorf("ConfigError field = %q, want %q", cerr.Field, tt.wantPart)
			}
		})
	}
}

func TestLoadSecretReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "soy.dev.yaml", `
host: https://ws.example.com
cluster_id: c-1
token: env(WORKSPACE_TOKEN)
`)

	cfg, err := NewLoader(dir, fakeEnv(map[string]string{
		"WORKSPACE_TOKEN": "resolved-secret",
	})).Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Token != "resolved-secret" {
		t.Errorf("Token = %q, want resolved-secret", cfg.Token)
	}

	// Unset reference fails before any connection attempt.
	_, err = NewLoader(dir, fakeEnv(nil)).Load()
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load error = %v, want *ConfigError", err)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "profiles.yaml", `
team-prod:
  host: https://prod.example.com
  cluster_id: c-prod
  token: prod-token
`)

	cfg, err := NewLoader(dir, fakeEnv(map[string]string{
		"DATABRICKS_PROFILE": "team-prod",
	})).Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Host != "https://prod.example.com" || cfg.ClusterID != "c-prod" || cfg.Token != "prod-token" {
		t.Errorf("profile not applied: %+v", cfg)
	}

	_, err = NewLoader(dir, fakeEnv(map[string]string{
		"DATABRICKS_PROFILE": "missing",
	})).Load()
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load error = %v, want *ConfigError for unknown profile", err)
	}
	if cerr.Field != "profile" {
		t.Errorf("ConfigError field = %q, want profile", cerr.Field)
	}
}

func TestLoadDeterministic(t *testing.T) {
	env := fakeEnv(map[string]string{
		"DATABRICKS_HOST":       "https://ws.example.com",
		"DATABRICKS_CLUSTER_ID": "c-1",
		"DATABRICKS_TOKEN":      "abc",
	})
	dir := t.TempDir()

	a, err := NewLoader(dir, env).Load()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewLoader(dir, env).Load()
	if err != nil {
		t.Fatal(err)
	}
	if *a != *b {
		t.Errorf("Load is not deterministic: %+v vs %+v", a, b)
	}
}
