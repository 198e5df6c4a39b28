package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 7, 4, 21, 30, 5, 0, time.UTC)
	got := LogFilePath("/var/log/siteplan", "siteplan", start)
	want := filepath.Join("/var/log/siteplan", "siteplan.20260704_213005.log")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)

	logger := slog.New(h)
	logger.Info("fan out", "key", "value")

	for name, buf := range map[string]*bytes.Buffer{"a": &a, "b": &b} {
		if !strings.Contains(buf.String(), "fan out") {
			t.Errorf("handler %s did not receive the record: %q", name, buf.String())
		}
	}
}

func TestMultiHandler_SkipsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil), nil)

	slog.New(h).Info("still works")
	if !strings.Contains(buf.String(), "still works") {
		t.Error("record lost with nil handlers in the list")
	}
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	slog.New(h).Debug("debug only")

	if !strings.Contains(debugBuf.String(), "debug only") {
		t.Error("debug handler missed a debug record")
	}
	if errorBuf.Len() != 0 {
		t.Error("error-level handler received a debug record")
	}
}

func TestContextHandler_InjectsDynamicAttrs(t *testing.T) {
	var buf bytes.Buffer
	total := 0
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{slog.Int("totalAnnotations", total)}
	})

	logger := slog.New(h)

	total = 7
	logger.Info("first")
	if !strings.Contains(buf.String(), "totalAnnotations=7") {
		t.Errorf("dynamic attr missing: %q", buf.String())
	}

	buf.Reset()
	total = 9
	logger.Info("second")
	if !strings.Contains(buf.String(), "totalAnnotations=9") {
		t.Errorf("provider not re-queried per record: %q", buf.String())
	}
}

func TestContextHandler_NilProvider(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), nil)

	slog.New(h).Info("no provider")
	if !strings.Contains(buf.String(), "no provider") {
		t.Error("record lost with nil provider")
	}
}

func TestContextHandler_Enabled(t *testing.T) {
	h := NewContextHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		nil,
	)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug disabled")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error enabled")
	}
}

func TestSlogManager_SetupAndLogger(t *testing.T) {
	var file bytes.Buffer

	m := NewSlogManager()
	m.Setup(&file, "debug", nil, func() []slog.Attr {
		return []slog.Attr{slog.String("session", "test")}
	})

	logger := m.Logger()
	logger.Info("hello", "k", "v")

	out := file.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("file handler missed the record: %q", out)
	}
	if !strings.Contains(out, "session=test") {
		t.Errorf("session context missing: %q", out)
	}

	if err := m.Flush(context.Background()); err != nil {
		t.Errorf("flush without provider should be a no-op: %v", err)
	}
}

func TestSlogManager_LoggerBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	if m.Logger() == nil {
		t.Error("expected a fallback logger before Setup")
	}
}
