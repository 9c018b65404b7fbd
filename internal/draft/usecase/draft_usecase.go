package usecase

import (
	"context"
	"log/slog"
	"strings"

	"looppilot/internal/draft/dto"
	"looppilot/pkg/ai"
	"looppilot/pkg/apperr"
)

const sourceDashboard = "dashboard"

type draftUsecase struct {
	gate   UsageGate
	writer ai.DraftWriter
	logger *slog.Logger
}

func NewDraftUsecase(gate UsageGate, writer ai.DraftWriter, logger *slog.Logger) DraftUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &draftUsecase{gate: gate, writer: writer, logger: logger}
}

func (u *draftUsecase) Generate(ctx context.Context, userID string, req *dto.GenerateDraftsRequest) (*dto.GenerateDraftsResponse, error) {
	usage := u.gate.CheckUsage(userID)
	if !usage.Allowed {
		return nil, apperr.New(apperr.CodeLimitReached, "Monthly draft limit reached. Upgrade to keep drafting.")
	}

	drafts, err := u.writer.WriteDrafts(ctx, ai.DraftRequest{
		Preview: req.Preview(),
		Tone:    strings.TrimSpace(req.Tone),
	})
	if err != nil {
		return nil, apperr.Upstream("failed to generate drafts", err)
	}

	u.gate.RecordDraftGenerated(userID, map[string]interface{}{"source": sourceDashboard})
	u.logger.Info("[Drafts] generated", "user_id", userID, "plan", usage.Plan, "count", len(drafts))

	return &dto.GenerateDraftsResponse{Drafts: drafts}, nil
}
