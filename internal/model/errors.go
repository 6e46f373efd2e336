// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// Codeはレスポンスの error フィールドに、MessageとDetailは details フィールドに載る。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
	Detail  string // 下流サービスのエラー詳細（存在する場合のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Details は details フィールド用の文字列を返す。
// 下流エラーの詳細がある場合はメッセージに続けて付与する。
func (e *APIError) Details() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
	ErrCodeClassroomCreateFailed = "CLASSROOM_CREATE_FAILED"
	ErrCodeUsernameExhausted     = "USERNAME_EXHAUSTED"
	ErrCodeIdentityCreateFailed  = "IDENTITY_CREATE_FAILED"
	ErrCodePersistFailed         = "PERSIST_FAILED"
)

// NewInvalidRequestError は必須フィールド欠落エラーを生成する。
func NewInvalidRequestError(missing []string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: fmt.Sprintf("必須フィールドが未入力です: %s", strings.Join(missing, ", ")),
	}
}

// NewClassroomCreateFailedError はクラス作成失敗エラーを生成する。
func NewClassroomCreateFailedError(err error) *APIError {
	return &APIError{
		Code:    ErrCodeClassroomCreateFailed,
		Message: "クラスの作成に失敗しました。",
		Detail:  err.Error(),
	}
}

// NewUsernameExhaustedError はユーザー名候補の枯渇エラーを生成する。
// 規定回数すべての候補が既存ユーザー名と衝突した場合に返す。
func NewUsernameExhaustedError(attempts int) *APIError {
	return &APIError{
		Code:    ErrCodeUsernameExhausted,
		Message: fmt.Sprintf("ユーザー名の生成に%d回失敗しました。別の名前でお試しください。", attempts),
	}
}

// NewIdentityCreateFailedError はアイデンティティ作成失敗エラーを生成する。
func NewIdentityCreateFailedError(err error) *APIError {
	return &APIError{
		Code:    ErrCodeIdentityCreateFailed,
		Message: "ログインアカウントの作成に失敗しました。",
		Detail:  err.Error(),
	}
}

// NewPersistFailedError は生徒レコードの保存失敗エラーを生成する。
// 補償（アイデンティティ削除）実施後に返される。
func NewPersistFailedError(err error) *APIError {
	return &APIError{
		Code:    ErrCodePersistFailed,
		Message: "生徒レコードの保存に失敗しました。",
		Detail:  err.Error(),
	}
}
