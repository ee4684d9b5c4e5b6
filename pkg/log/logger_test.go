package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"fediview/pkg/log"
)

func capture(t *testing.T, level log.Level, fn func(l *log.Logger)) []map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := log.New(level, log.NewStdoutWithWriter(&buf))
	fn(logger)
	logger.Close()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_WritesStructuredJSON(t *testing.T) {
	// Act
	entries := capture(t, log.Info, func(l *log.Logger) {
		l.Info("object fetched", "url", "https://social.example/a", "status", 200)
	})

	// Assert
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry["msg"] != "object fetched" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level: got %v", entry["level"])
	}
	if entry["url"] != "https://social.example/a" {
		t.Errorf("url field: got %v", entry["url"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status field: got %v", entry["status"])
	}
	if entry["timestamp"] == nil || entry["caller"] == nil {
		t.Errorf("entry missing timestamp or caller: %v", entry)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	// Act
	entries := capture(t, log.Warn, func(l *log.Logger) {
		l.Debug("dropped")
		l.Info("dropped")
		l.Warn("kept")
		l.Error("kept")
	})

	// Assert
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0]["level"] != "WARN" || entries[1]["level"] != "ERROR" {
		t.Errorf("got %v and %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	// Arrange
	ctx := log.WithRequestID(context.Background(), "req-42")

	// Act
	entries := capture(t, log.Info, func(l *log.Logger) {
		l.InfoCtx(ctx, "handled")
	})

	// Assert
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	if entries[0]["request_id"] != "req-42" {
		t.Errorf("request_id: got %v", entries[0]["request_id"])
	}
}

func TestLogger_ContextFieldsAreMerged(t *testing.T) {
	// Arrange
	ctx := log.WithFields(context.Background(), "component", "resolver")
	ctx = log.WithFields(ctx, "depth", 2)

	// Act
	entries := capture(t, log.Info, func(l *log.Logger) {
		l.InfoCtx(ctx, "node resolved")
	})

	// Assert
	entry := entries[0]
	if entry["component"] != "resolver" {
		t.Errorf("component: got %v", entry["component"])
	}
	if entry["depth"] != float64(2) {
		t.Errorf("depth: got %v", entry["depth"])
	}
}

func TestLogger_WithAddsBaseFields(t *testing.T) {
	// Act
	entries := capture(t, log.Info, func(l *log.Logger) {
		l.With("service", "fediview").Info("started")
	})

	// Assert
	if entries[0]["service"] != "fediview" {
		t.Errorf("service: got %v", entries[0]["service"])
	}
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := log.New(log.Info, log.NewStdoutWithWriter(&buf))
	logger.Info("one")

	// Act
	logger.Close()
	logger.Close()

	// Assert
	if !strings.Contains(buf.String(), "one") {
		t.Error("entry should have been flushed on close")
	}
}

func TestParseLevel_AcceptsKnownNames(t *testing.T) {
	cases := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.Debug},
		{"INFO", log.Info},
		{"Warning", log.Warn},
		{"error", log.Error},
		{"FATAL", log.Fatal},
	}
	for _, tc := range cases {
		// Act
		level, err := log.ParseLevel(tc.in)

		// Assert
		if err != nil || level != tc.want {
			t.Errorf("%q: got (%v, %v), want %v", tc.in, level, err, tc.want)
		}
	}
}

func TestParseLevel_UnknownName_ReturnsError(t *testing.T) {
	// Act
	level, err := log.ParseLevel("verbose")

	// Assert
	if err == nil {
		t.Error("expected an error")
	}
	if level != log.Info {
		t.Errorf("got %v, want the Info fallback", level)
	}
}
