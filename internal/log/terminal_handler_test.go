package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func record(level slog.Level, msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), level, msg, 0)
	r.AddAttrs(attrs...)
	return r
}

func TestTerminalHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, slog.LevelInfo)

	err := h.Handle(context.Background(), record(slog.LevelWarn, "lightweight tag", slog.String("tag", "docs-5")))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"10:30:00.000", "WRN", "lightweight tag", "tag=", "docs-5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("output %q should end with newline", out)
	}
}

func TestTerminalHandler_QuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, slog.LevelInfo)

	_ = h.Handle(context.Background(), record(slog.LevelInfo, "msg", slog.String("error", "no such mirror")))

	if !strings.Contains(buf.String(), `"no such mirror"`) {
		t.Errorf("output %q should quote the value", buf.String())
	}
}

func TestTerminalHandler_Enabled(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, slog.LevelWarn)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestTerminalHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	var h slog.Handler = newTerminalHandler(&buf, slog.LevelInfo)

	h = h.WithAttrs([]slog.Attr{slog.String("repo", "acme/widget")})
	h = h.WithGroup("git")

	_ = h.Handle(context.Background(), record(slog.LevelInfo, "fetched", slog.String("ref", "HEAD")))

	out := buf.String()
	if !strings.Contains(out, "repo=") {
		t.Errorf("output %q missing pre-set attr", out)
	}
	if !strings.Contains(out, "git.ref=") {
		t.Errorf("output %q missing group-prefixed attr", out)
	}
}

func TestLevelStyle(t *testing.T) {
	tests := []struct {
		level slog.Level
		label string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}
	for _, tt := range tests {
		if _, label := levelStyle(tt.level); label != tt.label {
			t.Errorf("levelStyle(%v) label = %q, want %q", tt.level, label, tt.label)
		}
	}
}
