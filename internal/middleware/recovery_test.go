package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRecoveryMiddleware_RecoversFromPanic はpanic発生時に500が返ることを検証する。
func TestRecoveryMiddleware_RecoversFromPanic(t *testing.T) {
	handler := NewRecoveryMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("unexpected state")
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/students", nil)
	w := httptest.NewRecorder()

	// panicが伝播しないこと
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "INTERNAL_ERROR" {
		t.Errorf("error = %q, want INTERNAL_ERROR", body.Error)
	}
}

// TestRecoveryMiddleware_PassesThroughNormally は正常系でレスポンスが素通りすることを検証する。
func TestRecoveryMiddleware_PassesThroughNormally(t *testing.T) {
	handler := NewRecoveryMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Result().StatusCode)
	}
}

// TestSecurityHeadersMiddleware_SetsHeaders はセキュリティヘッダーが付与されることを検証する。
func TestSecurityHeadersMiddleware_SetsHeaders(t *testing.T) {
	handler := NewSecurityHeadersMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	headers := w.Result().Header
	expected := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Cache-Control":          "no-store",
	}
	for key, want := range expected {
		if got := headers.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}
