package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

const (
	KindApplicationDecision = "application_decision"
	KindExhibitionPublished = "exhibition_published"
)

// Job is one notification handed to the mailer. It is pushed as JSON on a
// Redis list; the mailer pops from the other end.
type Job struct {
	Kind       string                      `json:"kind"`
	Recipients []string                    `json:"recipients"`
	Decision   *domain.ApplicationDecision `json:"decision,omitempty"`
	Exhibition *domain.ExhibitionSummary   `json:"exhibition,omitempty"`
	QueuedAt   time.Time                   `json:"queued_at"`
}

type RedisConfig struct {
	QueueKey       string
	MaxRetries     uint64
	InitialBackoff time.Duration
	// PushTimeout bounds one hand-off, retries included.
	PushTimeout time.Duration
}

// RedisNotifier queues notification jobs on a Redis list. A push that fails is
// retried with exponential backoff before giving up. Pushes ignore the
// cancellation of the caller's context and run under PushTimeout instead.
type RedisNotifier struct {
	client redis.Cmdable
	cfg    RedisConfig
	now    func() time.Time
}

func NewRedisNotifier(client redis.Cmdable, cfg RedisConfig) *RedisNotifier {
	if cfg.QueueKey == "" {
		cfg.QueueKey = "exhibition:notifications"
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = 5 * time.Second
	}

	return &RedisNotifier{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (n *RedisNotifier) NotifyApplicationDecision(ctx context.Context, decision domain.ApplicationDecision) error {
	return n.push(ctx, Job{
		Kind:       KindApplicationDecision,
		Recipients: []string{decision.Email},
		Decision:   &decision,
	})
}

func (n *RedisNotifier) NotifyExhibitionPublished(ctx context.Context, recipients []string, exhibition domain.ExhibitionSummary) error {
	return n.push(ctx, Job{
		Kind:       KindExhibitionPublished,
		Recipients: recipients,
		Exhibition: &exhibition,
	})
}

func (n *RedisNotifier) push(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.PushTimeout)
	defer cancel()

	job.QueuedAt = n.now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = n.cfg.InitialBackoff
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, n.cfg.MaxRetries), ctx)

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := n.client.RPush(ctx, n.cfg.QueueKey, data).Err(); err != nil {
			zap.L().Warn("notification push failed",
				zap.String("kind", job.Kind),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		return nil
	}, retry)
	if err != nil {
		return fmt.Errorf("n.client.RPush -> %w", err)
	}

	zap.L().Debug("notification queued", zap.String("kind", job.Kind), zap.Int("recipients", len(job.Recipients)))

	return nil
}
