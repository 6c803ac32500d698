package asset

import (
	"context"
	"strings"
	"testing"
)

func TestPostgresArgValidation(t *testing.T) {
	pg := NewPostgresStrategy()

	tests := []struct {
		name     string
		args     map[string]any
		wantPart string
	}{
		{
			name:     "missing dsn",
			args:     map[string]any{"query": "SELECT 1"},
			wantPart: "dsn",
		},
		{
			name:     "dsn_env unset",
			args:     map[string]any{"dsn_env": "SOY_TEST_NO_SUCH_DSN", "query": "SELECT 1"},
			wantPart: "not set",
		},
		{
			name:     "missing query",
			args:     map[string]any{"dsn": "postgres://localhost/db"},
			wantPart: "query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation fails before connect, so the real dialer is never hit.
			_, err := pg.Read(context.Background(), &Input{Name: "in", Args: tt.args}, nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantPart)
			}
		})
	}
}

func TestPostgresWriteUnsupported(t *testing.T) {
	pg := NewPostgresStrategy()
	err := pg.Write(context.Background(), &Output{Name: "out"}, &Table{})
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %v, want read-only", err)
	}
}

func TestPostgresConnectFailure(t *testing.T) {
	calls := 0
	pg := &PostgresStrategy{
		connect: func(ctx context.Context, dsn string) (pgQuerier, error) {
			calls++
			if dsn != "postgres://localhost/db" {
				t.Errorf("dsn = %q", dsn)
			}
			return nil, context.DeadlineExceeded
		},
	}

	_, err := pg.Read(context.Background(), &Input{
		Name: "in",
		Args: map[string]any{"dsn": "postgres://localhost/db", "query": "SELECT 1"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "connecting") {
		t.Errorf("error = %v, want connect failure", err)
	}
	if calls != 1 {
		t.Errorf("connect called %d times", calls)
	}
}
