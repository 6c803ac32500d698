package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.Info("session acquired", "cluster_id", "c-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "session acquired" {
		t.Errorf("msg = %v, want %q", record["msg"], "session acquired")
	}
	if record["cluster_id"] != "c-1" {
		t.Errorf("cluster_id = %v, want %q", record["cluster_id"], "c-1")
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "text")

	logger.Info("should be suppressed")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be suppressed") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc-123")
	if got := CorrelationID(ctx); got != "abc-123" {
		t.Errorf("CorrelationID = %q, want %q", got, "abc-123")
	}

	// Empty id generates a random one.
	ctx = WithCorrelationID(context.Background(), "")
	if got := CorrelationID(ctx); got == "" {
		t.Error("expected generated correlation ID, got empty string")
	}

	if got := CorrelationID(context.Background()); got != "" {
		t.Errorf("CorrelationID on bare context = %q, want empty", got)
	}
}

func TestCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")
	ctx := WithCorrelationID(context.Background(), "xyz")

	CommandLogger(ctx, logger, "connect").Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["command"] != "connect" {
		t.Errorf("command = %v, want %q", record["command"], "connect")
	}
	if record["correlation_id"] != "xyz" {
		t.Errorf("correlation_id = %v, want %q", record["correlation_id"], "xyz")
	}
}
