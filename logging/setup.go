package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultRetentionWeeks = 4

// weeklyFileWriter writes to app-YYYY-Www.log inside logDir, switching
// files when the ISO week changes and pruning files older than the
// retention period.
type weeklyFileWriter struct {
	logDir      string
	retention   time.Duration
	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	lastCleanup time.Time
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (w *weeklyFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	week := weekKey(time.Now())
	if w.currentFile == nil || week != w.currentWeek {
		if w.currentFile != nil {
			if err := w.currentFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
			}
		}

		path := filepath.Join(w.logDir, fmt.Sprintf("app-%s.log", week))
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return 0, fmt.Errorf("failed to open log file %s: %w", path, err)
		}

		w.currentFile = file
		w.currentWeek = week
	}

	if time.Since(w.lastCleanup) > 24*time.Hour {
		w.lastCleanup = time.Now()
		w.cleanupOldLogs()
	}

	return w.currentFile.Write(p)
}

// cleanupOldLogs deletes log files older than the retention period. Errors
// are swallowed; losing a cleanup pass is harmless.
func (w *weeklyFileWriter) cleanupOldLogs() {
	entries, err := os.ReadDir(w.logDir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-w.retention)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "app-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(w.logDir, entry.Name()))
		}
	}
}

// multiHandler fans records out to the console (text) and the log file
// (JSON) handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// SetupLogger configures slog to log to the console and, when logDir is
// non-empty, to a weekly rotating JSON log file with default retention.
func SetupLogger(logDir string) *slog.Logger {
	return SetupLoggerWithRetention(logDir, defaultRetentionWeeks)
}

// SetupLoggerWithRetention configures slog with a custom retention period.
func SetupLoggerWithRetention(logDir string, retentionWeeks int) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if logDir == "" {
		return slog.New(consoleHandler)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory, logging to console only", "error", err)
		return logger
	}

	writer := &weeklyFileWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		lastCleanup: time.Now(),
	}

	fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
}
