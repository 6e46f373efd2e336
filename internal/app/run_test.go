package app

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// startHealthServer はテスト用の/healthエンドポイントを起動し、ポート番号を返す。
func startHealthServer(t *testing.T, status int) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(status)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, port, err := net.SplitHostPort(server.Listener.Addr().String())
	if err != nil {
		t.Fatalf("failed to parse server address: %v", err)
	}
	return port
}

// TestRunHealthcheck_HealthyServer はサーバーが200を返す場合に成功することを検証する。
func TestRunHealthcheck_HealthyServer(t *testing.T) {
	port := startHealthServer(t, http.StatusOK)

	if err := runHealthcheck(port); err != nil {
		t.Errorf("runHealthcheck returned error: %v", err)
	}
}

// TestRunHealthcheck_UnhealthyServer はサーバーが503を返す場合に失敗することを検証する。
func TestRunHealthcheck_UnhealthyServer(t *testing.T) {
	port := startHealthServer(t, http.StatusServiceUnavailable)

	if err := runHealthcheck(port); err == nil {
		t.Error("runHealthcheck should fail on 503")
	}
}

// TestRunHealthcheck_NoServer は接続先が存在しない場合に失敗することを検証する。
func TestRunHealthcheck_NoServer(t *testing.T) {
	// 予約済みポート0への接続は必ず失敗する
	if err := runHealthcheck("0"); err == nil {
		t.Error("runHealthcheck should fail when no server is listening")
	}
}

// TestRun_HealthcheckCommand はhealthcheckサブコマンドが/healthを叩くことを検証する。
func TestRun_HealthcheckCommand(t *testing.T) {
	port := startHealthServer(t, http.StatusOK)
	t.Setenv("SERVER_PORT", port)

	if err := Run(nil, []string{"healthcheck"}); err != nil {
		t.Errorf("Run(healthcheck) returned error: %v", err)
	}
}
