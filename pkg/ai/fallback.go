package ai

import (
	"context"
	"log/slog"
)

// FallbackWriter tries the primary writer and falls back on any error.
type FallbackWriter struct {
	primary  DraftWriter
	fallback DraftWriter
	logger   *slog.Logger
}

func NewFallbackWriter(primary, fallback DraftWriter, logger *slog.Logger) *FallbackWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackWriter{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackWriter) WriteDrafts(ctx context.Context, req DraftRequest) ([]Draft, error) {
	drafts, err := f.primary.WriteDrafts(ctx, req)
	if err == nil {
		return drafts, nil
	}

	if isQuotaError(err) {
		f.logger.Warn("[AI] provider quota exhausted, using fallback", "error", err)
	} else {
		f.logger.Warn("[AI] provider failed, using fallback", "error", err)
	}
	return f.fallback.WriteDrafts(ctx, req)
}
