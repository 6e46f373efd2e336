package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Hezha00/english-arcade-sub001/internal/middleware"
	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// DBPinger はヘルスチェックに必要なデータベース疎通確認のインターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler はヘルスチェックのHTTPハンドラー。
type HealthHandler struct {
	db DBPinger
}

// NewHealthHandler はHealthHandlerを生成する。
func NewHealthHandler(db DBPinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health はデータベース疎通を確認し、稼働状態を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check failed", slog.String("error", err.Error()))
		middleware.WriteErrorResponse(w, http.StatusServiceUnavailable, &model.APIError{
			Code:    "UNHEALTHY",
			Message: "データベースに接続できません。",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
