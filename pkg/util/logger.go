package util

import (
	"context"
	"io"
	"log/slog"
)

type loggerKey struct{}

// NewLogger 建立 logger，loud 時輸出 debug 訊息，否則全部丟棄
func NewLogger(w io.Writer, loud bool) *slog.Logger {
	if !loud {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WithLogger 將 logger 放進 context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext 取得 context 中的 logger，沒有的話回傳不輸出的 logger
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return NewLogger(io.Discard, false)
}
