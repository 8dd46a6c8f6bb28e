package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

// LogNotifier only logs notifications. It is used when no Redis is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

func (n *LogNotifier) NotifyApplicationDecision(_ context.Context, decision domain.ApplicationDecision) error {
	n.logger.Info("application decision",
		zap.Uint("application_id", decision.ApplicationID),
		zap.String("status", string(decision.Status)),
		zap.String("email", decision.Email),
		zap.String("exhibition", decision.ExhibitionName),
		zap.String("booth_number", decision.BoothNumber))

	return nil
}

func (n *LogNotifier) NotifyExhibitionPublished(_ context.Context, recipients []string, exhibition domain.ExhibitionSummary) error {
	n.logger.Info("exhibition published",
		zap.Uint("exhibition_id", exhibition.ID),
		zap.String("name", exhibition.Name),
		zap.Int("recipients", len(recipients)))

	return nil
}
