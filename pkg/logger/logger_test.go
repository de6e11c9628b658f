package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext should fall back to default logger")
	}
}

func TestFromContextInjected(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithContext(context.Background(), custom)
	if FromContext(ctx) != custom {
		t.Fatal("FromContext should return the injected logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.name); got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInitWithFileCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	if err := InitWithFile(dir); err != nil {
		t.Fatalf("InitWithFile: %v", err)
	}
	defer ShutdownFileHandler()

	matches, err := filepath.Glob(filepath.Join(dir, "bridge-*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("log files = %d, want 1", len(matches))
	}
}
