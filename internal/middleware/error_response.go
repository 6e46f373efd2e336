package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Hezha00/english-arcade-sub001/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// errorにはエラーコード、detailsには人間向けの説明を格納する。
type ErrorResponseBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Error:   apiErr.Code,
		Details: apiErr.Details(),
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "内部エラーが発生しました。しばらく待ってから再度お試しください。",
	})
}
