package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/pkg/application/modules"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

const (
	TypeHistorySnapshot = "history:snapshot"
	QueueHistory        = "history"

	snapshotTaskTimeout = 30 * time.Minute
)

type Snapshotter interface {
	Snapshot(ctx context.Context) (entity.SyncResult, error)
}

// NewSnapshotTask создаёт задачу снимка истории. Задача уникальна в пределах
// ttl: повторная постановка, пока предыдущая не выполнена, отбрасывается.
func NewSnapshotTask(ttl time.Duration) *asynq.Task {
	return asynq.NewTask(
		TypeHistorySnapshot,
		nil,
		asynq.Queue(QueueHistory),
		asynq.MaxRetry(1),
		asynq.Timeout(snapshotTaskTimeout),
		asynq.Unique(ttl),
	)
}

// SnapshotHandler выполняет задачи снимка в asynq-сервере.
func SnapshotHandler(svc Snapshotter) modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TypeHistorySnapshot,
		Handle: func(ctx context.Context, _ *asynq.Task) error {
			if _, err := svc.Snapshot(ctx); err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}

			return nil
		},
	}
}

// QueueTrigger ставит снимок в очередь asynq.
type QueueTrigger struct {
	client *asynq.Client
	ttl    time.Duration
}

func NewQueueTrigger(rdb redis.UniversalClient, ttl time.Duration) *QueueTrigger {
	return &QueueTrigger{
		client: asynq.NewClientFromRedisClient(rdb),
		ttl:    ttl,
	}
}

// Trigger возвращает true, если задача поставлена, и false, если такая уже
// ждёт в очереди.
func (q *QueueTrigger) Trigger(ctx context.Context) (bool, error) {
	info, err := q.client.EnqueueContext(ctx, NewSnapshotTask(q.ttl))
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return false, nil
		}

		return false, fmt.Errorf("enqueue snapshot: %w", err)
	}

	logger(ctx).Info("snapshot task enqueued", logx.FieldTaskID, info.ID, "queue", info.Queue)

	return true, nil
}

func (q *QueueTrigger) Close() error {
	return q.client.Close()
}

// InlineTrigger выполняет снимок сразу, когда очереди нет.
type InlineTrigger struct {
	svc Snapshotter
}

func NewInlineTrigger(svc Snapshotter) *InlineTrigger {
	return &InlineTrigger{svc: svc}
}

func (t *InlineTrigger) Trigger(ctx context.Context) (bool, error) {
	if _, err := t.svc.Snapshot(ctx); err != nil {
		return false, err
	}

	return true, nil
}
