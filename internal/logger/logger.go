// Package logger はJSON構造化ログのセットアップを提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup は指定レベル以上を出力するJSON構造化ログのslog.Loggerを生成して返す。
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerがnilの場合はos.Stdoutに出力する。レベルはInfo固定。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w, slog.LevelInfo)
	slog.SetDefault(logger)
}
