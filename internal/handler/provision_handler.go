// Package handler はHTTP APIのハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Hezha00/english-arcade-sub001/internal/middleware"
	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// ProvisionServiceInterface は生徒プロビジョニングハンドラーが必要とするサービスインターフェース。
type ProvisionServiceInterface interface {
	// Provision は生徒アカウント一式（クラス・アイデンティティ・レコード）を払い出す。
	Provision(ctx context.Context, req *model.ProvisionRequest) (*model.StudentCredentials, error)
}

// ProvisionHandler は生徒プロビジョニングのHTTPハンドラー。
type ProvisionHandler struct {
	service ProvisionServiceInterface
}

// NewProvisionHandler はProvisionHandlerを生成する。
func NewProvisionHandler(service ProvisionServiceInterface) *ProvisionHandler {
	return &ProvisionHandler{service: service}
}

// provisionResponse はプロビジョニング成功時のAPIレスポンス。
// パスワードはこのレスポンスでのみクライアントに渡る。
type provisionResponse struct {
	Success  bool   `json:"success"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProvisionStudent は生徒アカウントの払い出しを処理する。
// POST /api/students
func (h *ProvisionHandler) ProvisionStudent(w http.ResponseWriter, r *http.Request) {
	var req model.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:    model.ErrCodeInvalidRequest,
			Message: "リクエストボディの解析に失敗しました。正しいJSON形式でリクエストしてください。",
		})
		return
	}

	creds, err := h.service.Provision(r.Context(), &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(provisionResponse{
		Success:  true,
		Name:     creds.Name,
		Username: creds.Username,
		Password: creds.Password,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// 入力起因のエラーは400、ストア障害は500、外部プロバイダ障害は502。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest, model.ErrCodeUsernameExhausted:
		return http.StatusBadRequest
	case model.ErrCodeIdentityCreateFailed:
		return http.StatusBadGateway
	case model.ErrCodeClassroomCreateFailed, model.ErrCodePersistFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
