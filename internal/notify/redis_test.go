package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

type flakyRedis struct {
	redis.Cmdable

	failures    int
	calls       int
	key         string
	pushed      [][]byte
	hasDeadline bool
}

func (f *flakyRedis) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.calls++
	cmd := redis.NewIntCmd(ctx)
	if err := ctx.Err(); err != nil {
		cmd.SetErr(err)
		return cmd
	}
	_, f.hasDeadline = ctx.Deadline()
	if f.calls <= f.failures {
		cmd.SetErr(errors.New("connection refused"))
		return cmd
	}

	f.key = key
	for _, v := range values {
		f.pushed = append(f.pushed, v.([]byte))
	}
	cmd.SetVal(int64(len(f.pushed)))
	return cmd
}

func TestRedisNotifier_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		client := &flakyRedis{failures: 2}
		notifier := NewRedisNotifier(client, RedisConfig{QueueKey: "jobs", MaxRetries: 3, InitialBackoff: time.Millisecond})

		err := notifier.NotifyApplicationDecision(ctx, domain.ApplicationDecision{
			ApplicationID:  4,
			Status:         domain.ApplicationApproved,
			Email:          "acme@example.com",
			ExhibitorName:  "Acme Homes",
			ExhibitionName: "Property Expo",
			BoothNumber:    "A-01",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, client.calls)
		assert.Equal(t, "jobs", client.key)
		require.Len(t, client.pushed, 1)

		var job Job
		require.NoError(t, json.Unmarshal(client.pushed[0], &job))
		assert.Equal(t, KindApplicationDecision, job.Kind)
		assert.Equal(t, []string{"acme@example.com"}, job.Recipients)
		require.NotNil(t, job.Decision)
		assert.Equal(t, "A-01", job.Decision.BoothNumber)
		assert.Nil(t, job.Exhibition)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		client := &flakyRedis{failures: 10}
		notifier := NewRedisNotifier(client, RedisConfig{MaxRetries: 2, InitialBackoff: time.Millisecond})

		err := notifier.NotifyExhibitionPublished(ctx, []string{"a@example.com"}, domain.ExhibitionSummary{ID: 1})
		assert.Error(t, err)
		assert.Equal(t, 3, client.calls)
		assert.Empty(t, client.pushed)
	})
}

func TestRedisNotifier_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &flakyRedis{}
	notifier := NewRedisNotifier(client, RedisConfig{QueueKey: "jobs", MaxRetries: 2, InitialBackoff: time.Millisecond})

	err := notifier.NotifyApplicationDecision(ctx, domain.ApplicationDecision{
		ApplicationID: 9,
		Status:        domain.ApplicationApproved,
		Email:         "acme@example.com",
		BoothNumber:   "C-07",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
	assert.Len(t, client.pushed, 1)
	assert.True(t, client.hasDeadline, "pushes run under the push timeout")
}

func TestRedisNotifier_Queue(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	resource, err := pool.Run("redis", "7-alpine", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	ctx := context.Background()
	var client *redis.Client
	err = pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: resource.GetHostPort("6379/tcp")})
		return client.Ping(ctx).Err()
	})
	require.NoError(t, err)

	notifier := NewRedisNotifier(client, RedisConfig{QueueKey: "exhibition:test", MaxRetries: 1})
	summary := domain.ExhibitionSummary{ID: 7, Name: "Property Expo", City: "Melbourne"}
	require.NoError(t, notifier.NotifyExhibitionPublished(ctx, []string{"a@example.com", "b@example.com"}, summary))

	raw, err := client.LPop(ctx, "exhibition:test").Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, KindExhibitionPublished, job.Kind)
	assert.Len(t, job.Recipients, 2)
	require.NotNil(t, job.Exhibition)
	assert.Equal(t, "Property Expo", job.Exhibition.Name)
}
