package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestLoggingMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer

	handler := LoggingMiddleware(captureLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}))

	req := httptest.NewRequest(http.MethodGet, "/patients/gracy/schedule?week=next", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("middleware changed the status code: %d", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %q", buf.String())
	}

	if entry["method"] != "GET" {
		t.Errorf("got method %v", entry["method"])
	}
	if entry["path"] != "/patients/gracy/schedule" {
		t.Errorf("got path %v", entry["path"])
	}
	if entry["query"] != "week=next" {
		t.Errorf("got query %v", entry["query"])
	}
	if entry["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("got status_code %v", entry["status_code"])
	}
	if entry["bytes_written"] != float64(len("short and stout")) {
		t.Errorf("got bytes_written %v", entry["bytes_written"])
	}
}

func TestLoggingMiddlewareSkipsProbes(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		var buf bytes.Buffer

		handler := LoggingMiddleware(captureLogger(&buf))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if buf.Len() > 0 {
			t.Errorf("probe path %s was logged: %q", path, buf.String())
		}
	}
}

func TestLoggingMiddlewareDefaultStatus(t *testing.T) {
	var buf bytes.Buffer

	handler := LoggingMiddleware(captureLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Handler writes nothing; the wrapper reports the implicit 200.
		}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `"status_code":200`) {
		t.Errorf("implicit status not logged as 200: %q", buf.String())
	}
}
