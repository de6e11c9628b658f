// Package logger provides slog-based structured logging for the bridge.
//
// Core pieces:
//   - Init() configures the default logger (JSON in production, text in dev)
//   - InitWithFile() mirrors output to a dated log file
//   - FromContext() context-aware logger lookup
//   - package-level helpers (Info/Error/Warn/Debug/Fatal)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
)

var (
	// defaultLogger uses atomic.Pointer so Init can swap it under load.
	defaultLogger atomic.Pointer[slog.Logger]

	logFile   *os.File
	logFileMu sync.Mutex
)

func init() { defaultLogger.Store(newLogger(false, slog.LevelInfo)) }

func getLogger() *slog.Logger { return defaultLogger.Load() }

func storeLogger(l *slog.Logger) {
	defaultLogger.Store(l)
	slog.SetDefault(l)
}

// replaceTimeAttr formats timestamps as a stable, human-readable UTC string.
func replaceTimeAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format("2006-01-02 15:04:05"))
		}
	}
	return a
}

func newLogger(development bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   development,
		ReplaceAttr: replaceTimeAttr,
	}
	var handler slog.Handler
	if development {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init initializes the default logger. env: "development"/"dev" or
// "production" (default). level: debug/info/warn/error.
func Init(env string, level ...string) {
	dev := env == "development" || env == "dev"
	lv := slog.LevelInfo
	if len(level) > 0 {
		lv = ParseLevel(level[0])
	}
	storeLogger(newLogger(dev, lv))
}

// InitWithFile initializes logging to stdout and a dated log file.
//
// Log file: {logDir}/bridge-{date}.log (JSON). Callers should run
// ShutdownFileHandler() before exit.
func InitWithFile(logDir string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return pkgerr.Wrap(err, "Logger.Init", "create log dir")
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logDir, fmt.Sprintf("bridge-%s.log", date))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return pkgerr.Wrap(err, "Logger.Init", "open log file")
	}
	logFileMu.Lock()
	logFile = f
	logFileMu.Unlock()

	multi := io.MultiWriter(os.Stdout, f)
	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: replaceTimeAttr}
	storeLogger(slog.New(slog.NewJSONHandler(multi, opts)))

	slog.Info("log file opened", "path", logPath)
	return nil
}

// ShutdownFileHandler closes the log file (safe to call concurrently).
func ShutdownFileHandler() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
	}
}

type ctxKey struct{}

// WithContext injects a logger into ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext extracts the logger from ctx, falling back to the default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return getLogger()
}

// Info/Error/Warn/Debug log structured records. args are key-value pairs.
func Info(msg string, args ...any)  { getLogger().Info(msg, args...) }
func Error(msg string, args ...any) { getLogger().Error(msg, args...) }
func Warn(msg string, args ...any)  { getLogger().Warn(msg, args...) }
func Debug(msg string, args ...any) { getLogger().Debug(msg, args...) }

// Fatal logs at error level and exits.
func Fatal(msg string, args ...any) {
	getLogger().Error(msg, args...)
	os.Exit(1)
}

// Infow/Warnw/Errorw are aliases kept for call-site symmetry.
func Infow(msg string, keysAndValues ...any)  { getLogger().Info(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...any)  { getLogger().Warn(msg, keysAndValues...) }
func Errorw(msg string, keysAndValues ...any) { getLogger().Error(msg, keysAndValues...) }

// With returns a logger with bound attributes.
func With(args ...any) *slog.Logger { return getLogger().With(args...) }

// Get returns the underlying slog.Logger.
func Get() *slog.Logger { return getLogger() }

// Attr is re-exported so call sites do not import slog directly.
type Attr = slog.Attr

// Any creates an attribute of any type.
func Any(key string, value any) Attr { return slog.Any(key, value) }

// String creates a string attribute.
func String(key, value string) Attr { return slog.String(key, value) }

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

// Reserved field keys. Use the constants, never hardcoded strings.
const (
	FieldError     = "error"
	FieldSessionID = "session_id"
	FieldCount     = "count"
	FieldAddr      = "addr"
	FieldPath      = "path"
	FieldEventType = "event_type"
	FieldModel     = "model"
	FieldID        = "id"
)
