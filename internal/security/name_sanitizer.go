// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NameSanitizerService は教師が入力する名前等のテキストからHTMLを除去し、
// 管理画面での表示時にXSSが成立しないことを保証する。
// bluemondayのStrictPolicy（全タグ除去）を使用する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NameSanitizerService は入力テキストのサニタイズ機能のインターフェースを定義する。
// 生徒名・クラス名・学校名の保存前に使用される。
type NameSanitizerService interface {
	// Sanitize はテキストからHTMLタグを全て除去し、前後の空白を取り除いて返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// nameSanitizer はNameSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type nameSanitizer struct {
	policy *bluemonday.Policy
}

// NewNameSanitizer はNameSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たないため、タグ・スクリプト・属性は全て除去される。
func NewNameSanitizer() *nameSanitizer {
	return &nameSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからHTMLタグを全て除去し、前後の空白を取り除いて返す。
func (s *nameSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
