// Package queue runs the durable outbound task queue: enqueuing with
// duplicate suppression, per-channel admission against the request budget,
// rate limited execution by a worker pool, and manual retry of terminally
// failed tasks.
package queue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Enqueuer stores new tasks, suppressing duplicates inside the dedup window.
// Two tasks are duplicates when tenant, channel, type and payload all match;
// a PENDING task dispatched twice would double the remote calls it budgets
// for.
type Enqueuer struct {
	tasks       integration.QueueTaskRepository
	dedup       shared.IdempotencyStore
	dedupWindow time.Duration
	log         *zap.Logger
}

// NewEnqueuer creates an enqueuer. A nil dedup store disables duplicate
// suppression.
func NewEnqueuer(tasks integration.QueueTaskRepository, dedup shared.IdempotencyStore, dedupWindow time.Duration, log *zap.Logger) *Enqueuer {
	if log == nil {
		log = zap.NewNop()
	}
	if dedupWindow <= 0 {
		dedupWindow = time.Minute
	}
	return &Enqueuer{tasks: tasks, dedup: dedup, dedupWindow: dedupWindow, log: log}
}

// Enqueue stores a task and moves it into the dispatchable set. Returns
// false without error when an identical task was enqueued inside the dedup
// window.
func (e *Enqueuer) Enqueue(ctx context.Context, task *integration.QueueTask) (bool, error) {
	if e.dedup != nil {
		fresh, err := e.dedup.MarkProcessed(ctx, dedupKey(task), e.dedupWindow)
		if err != nil {
			// dedup is an optimization; a broken store must not stop the queue
			e.log.Warn("task dedup check failed", zap.Error(err))
		} else if !fresh {
			e.log.Debug("suppressed duplicate task",
				zap.String("type", string(task.Type)),
				zap.String("channel_id", task.SalesChannelID.String()))
			return false, nil
		}
	}

	if err := task.MarkPending(); err != nil {
		return false, err
	}
	if err := e.tasks.Save(ctx, task); err != nil {
		return false, err
	}
	return true, nil
}

// dedupKey fingerprints a task by everything that makes it the same work
func dedupKey(task *integration.QueueTask) string {
	sum := sha256.Sum256([]byte(task.Payload))
	return fmt.Sprintf("queue:dedup:%s:%s:%s:%s",
		task.TenantID, task.SalesChannelID, task.Type, hex.EncodeToString(sum[:8]))
}
