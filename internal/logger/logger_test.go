package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", FormatJSON)
	l.Info("hidden")
	l.Warn("shown", "code", "GAME_IS_FULL")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "shown" || rec["code"] != "GAME_IS_FULL" {
		t.Fatalf("record = %v", rec)
	}
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", FormatPretty)
	l.Debug("bomb passed", "risk", 10)
	if out := buf.String(); !strings.Contains(out, "bomb passed") || !strings.Contains(out, "risk=10") {
		t.Fatalf("output = %q", out)
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", FormatText).With("request_id", "r1")

	ctx := NewContext(context.Background(), l)
	WithContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "request_id=r1") {
		t.Fatalf("output = %q", buf.String())
	}
	if WithContext(context.Background()) != Get() {
		t.Fatal("empty context must fall back to the default logger")
	}
}
