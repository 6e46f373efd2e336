package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

// TestLoggingMiddleware_LogsRequestFields はリクエストの基本フィールドが
// 構造化ログに含まれることを検証する。
func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(testLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/students", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	if entry["msg"] != "http_request" {
		t.Errorf("msg = %v, want http_request", entry["msg"])
	}
	if entry["method"] != "POST" {
		t.Errorf("method = %v, want POST", entry["method"])
	}
	if entry["path"] != "/api/students" {
		t.Errorf("path = %v, want /api/students", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if entry["remote_ip"] != "10.0.0.1" {
		t.Errorf("remote_ip = %v, want 10.0.0.1", entry["remote_ip"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("duration_ms should be logged")
	}
}

// TestLoggingMiddleware_ServerErrorLogsAtErrorLevel は5xxがERRORレベルで出力されることを検証する。
func TestLoggingMiddleware_ServerErrorLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(testLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/students", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
}

// TestLoggingMiddleware_ClientErrorLogsAtWarnLevel は4xxがWARNレベルで出力されることを検証する。
func TestLoggingMiddleware_ClientErrorLogsAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(testLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/students", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
}

// TestLoggingMiddleware_ImplicitStatus はWriteHeader未呼び出し時に200が記録されることを検証する。
func TestLoggingMiddleware_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(testLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
}
