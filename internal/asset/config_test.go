package asset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeIOConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, IOFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadIOConfig(t *testing.T) {
	dir := t.TempDir()
	writeIOConfig(t, dir, `
name: orders
inputs:
  - name: raw
    strategy: spark
    api: table
    args:
      name: "${environment}.sales.orders"
    columns: [id, amount]
outputs:
  - name: clean
    api: csv
    strategy: local
    args:
      path: out.csv
context:
  owner: data-team
`)

	cfg, err := LoadIOConfig(dir, map[string]any{"environment": "staging"})
	if err != nil {
		t.Fatalf("LoadIOConfig returned unexpected error: %v", err)
	}

	if cfg.Name != "orders" {
		t.Errorf("Name = %q", cfg.Name)
	}

	in, err := cfg.Input("raw")
	if err != nil {
		t.Fatal(err)
	}
	if got := in.Args["name"]; got != "staging.sales.orders" {
		t.Errorf("rendered args.name = %v, want staging.sales.orders", got)
	}
	if len(in.Columns) != 2 || in.Columns[0] != "id" {
		t.Errorf("Columns = %v", in.Columns)
	}

	out, err := cfg.Output("clean")
	if err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "local" {
		t.Errorf("Strategy = %q", out.Strategy)
	}

	if cfg.Context["owner"] != "data-team" {
		t.Errorf("Context = %v", cfg.Context)
	}
}

func TestLoadIOConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadIOConfig(t.TempDir(), nil); err == nil {
			t.Fatal("expected error for missing io.yaml")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		dir := t.TempDir()
		writeIOConfig(t, dir, "inputs: []\n")
		if _, err := LoadIOConfig(dir, nil); err == nil || !strings.Contains(err.Error(), "name") {
			t.Fatalf("error = %v, want asset name error", err)
		}
	})

	t.Run("bad placeholder", func(t *testing.T) {
		dir := t.TempDir()
		writeIOConfig(t, dir, "name: \"${nope(}\"\n")
		if _, err := LoadIOConfig(dir, map[string]any{}); err == nil {
			t.Fatal("expected render error for malformed expression")
		}
	})
}

func TestUsesStrategy(t *testing.T) {
	cfg := &IOConfig{
		Inputs:  []Input{{Name: "a", Strategy: "local"}, {Name: "b"}},
		Outputs: []Output{{Name: "c", Strategy: "s3"}},
	}

	// Input "b" has no strategy, so it defaults to spark.
	if !cfg.UsesStrategy("spark") {
		t.Error("UsesStrategy(spark) = false, default strategy is spark")
	}
	if !cfg.UsesStrategy("s3") {
		t.Error("UsesStrategy(s3) = false")
	}
	if cfg.UsesStrategy("postgres") {
		t.Error("UsesStrategy(postgres) = true")
	}
}

func TestRenderString(t *testing.T) {
	vars := map[string]any{"environment": "dev", "cluster_id": "c-1"}

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${environment}", "dev"},
		{"${environment}.schema.${cluster_id}", "dev.schema.c-1"},
		{"${environment == 'dev' ? 'sandbox' : 'main'}", "sandbox"},
	}
	for _, tt := range tests {
		got, err := renderString(tt.in, vars)
		if err != nil {
			t.Errorf("renderString(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("renderString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := renderString("${undefined_var}", vars); err == nil {
		t.Error("expected error for unknown variable")
	}
}
