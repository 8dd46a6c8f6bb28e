package service

import (
	"context"
	"time"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

// Notifier hands events to the delivery side (mail, push). Calls happen after
// the state change has been committed; a failure is logged and never undoes
// the transition.
type Notifier interface {
	NotifyApplicationDecision(ctx context.Context, decision domain.ApplicationDecision) error
	NotifyExhibitionPublished(ctx context.Context, recipients []string, exhibition domain.ExhibitionSummary) error
}

const notifyTimeout = 10 * time.Second

// detachNotify returns a context for the notification of a committed change.
// It keeps the values of ctx but not its cancellation: a client hanging up
// after the commit must not drop the hand-off.
func detachNotify(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
}

// GateFeed receives check-in events for live display at the exhibition door.
type GateFeed interface {
	Publish(event domain.GateEvent)
}
