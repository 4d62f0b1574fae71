package integration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// TaskStatus is the lifecycle state of a queued task
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "NEW"
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusProcessed  TaskStatus = "PROCESSED"
	TaskStatusFailed     TaskStatus = "FAILED"
)

// TaskType names the worker routine a queued task dispatches to
type TaskType string

const (
	TaskTypeCreateProduct TaskType = "create_remote_product"
	TaskTypeUpdateProduct TaskType = "update_remote_product"
	TaskTypeDeleteProduct TaskType = "delete_remote_product"
)

// QueueTask is one unit of outbound work against a channel. Each task
// declares up front how many remote API requests it will cost; the
// dispatcher uses that cost against the channel's per-minute budget.
type QueueTask struct {
	shared.BaseEntity
	TenantID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	SalesChannelID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_queue_dispatch"`
	Type                   TaskType   `gorm:"type:varchar(50);not null"`
	Status                 TaskStatus `gorm:"type:varchar(15);not null;index:idx_queue_dispatch"`
	Priority               int        `gorm:"not null;default:0"`
	Payload                string     `gorm:"type:jsonb"`
	NumberOfRemoteRequests int        `gorm:"not null;default:1"`
	RetryCount             int        `gorm:"not null;default:0"`
	MaxRetries             int        `gorm:"not null;default:3"`
	ErrorHistory           string     `gorm:"type:text"`
	StartedAt              *time.Time `gorm:""`
	FinishedAt             *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (QueueTask) TableName() string {
	return "integration_queue_tasks"
}

// NewQueueTask enqueues work against a channel. Cost below one request is
// clamped to one.
func NewQueueTask(tenantID, channelID uuid.UUID, taskType TaskType, payload string, requestCost int) *QueueTask {
	if requestCost < 1 {
		requestCost = 1
	}
	return &QueueTask{
		BaseEntity:             shared.NewBaseEntity(),
		TenantID:               tenantID,
		SalesChannelID:         channelID,
		Type:                   taskType,
		Status:                 TaskStatusNew,
		Payload:                payload,
		NumberOfRemoteRequests: requestCost,
		MaxRetries:             3,
	}
}

// WithPriority raises or lowers dispatch priority. Higher runs first.
func (t *QueueTask) WithPriority(priority int) *QueueTask {
	t.Priority = priority
	return t
}

// MarkPending moves a freshly stored task into the dispatchable set
func (t *QueueTask) MarkPending() error {
	if t.Status != TaskStatusNew && t.Status != TaskStatusProcessing {
		return ErrTaskInvalidState
	}
	t.Status = TaskStatusPending
	t.Touch()
	return nil
}

// Start marks the task as picked up by a worker
func (t *QueueTask) Start() error {
	if t.Status != TaskStatusPending {
		return ErrTaskInvalidState
	}
	t.Status = TaskStatusProcessing
	now := time.Now()
	t.StartedAt = &now
	t.Touch()
	return nil
}

// Complete marks the task as finished successfully
func (t *QueueTask) Complete() error {
	if t.Status != TaskStatusProcessing {
		return ErrTaskInvalidState
	}
	t.Status = TaskStatusProcessed
	now := time.Now()
	t.FinishedAt = &now
	t.Touch()
	return nil
}

// Fail records a failed attempt. The error is appended to the task's
// history; when retries remain the task goes back to PENDING, otherwise it
// lands in FAILED terminally.
func (t *QueueTask) Fail(errMsg string) error {
	if t.Status != TaskStatusProcessing {
		return ErrTaskInvalidState
	}
	t.appendError(errMsg)
	t.RetryCount++
	if t.RetryCount > t.MaxRetries {
		t.Status = TaskStatusFailed
		now := time.Now()
		t.FinishedAt = &now
	} else {
		t.Status = TaskStatusPending
		t.StartedAt = nil
	}
	t.Touch()
	return nil
}

// Retry requeues a terminally failed task with a fresh retry budget
func (t *QueueTask) Retry() error {
	if t.Status != TaskStatusFailed {
		return ErrTaskNotRetryable
	}
	t.Status = TaskStatusPending
	t.RetryCount = 0
	t.StartedAt = nil
	t.FinishedAt = nil
	t.Touch()
	return nil
}

func (t *QueueTask) appendError(errMsg string) {
	entry := fmt.Sprintf("[%s] attempt %d: %s", time.Now().UTC().Format(time.RFC3339), t.RetryCount+1, errMsg)
	if t.ErrorHistory == "" {
		t.ErrorHistory = entry
	} else {
		t.ErrorHistory = t.ErrorHistory + "\n" + entry
	}
}

// IsTerminal reports whether the task can never run again without a manual retry
func (t *QueueTask) IsTerminal() bool {
	return t.Status == TaskStatusProcessed || t.Status == TaskStatusFailed
}

// AdmitTasks selects which PENDING tasks of one channel may start this
// minute. The budget is the channel's requests-per-minute limit minus what
// the currently PROCESSING tasks already claim. Pending tasks are considered
// by priority descending, then enqueue time ascending, and admitted while
// their cumulative request cost fits the remaining budget.
//
// A task whose own cost exceeds the whole per-minute budget would otherwise
// starve forever; such a task is admitted alone when nothing else is
// processing.
func AdmitTasks(budget int, processing []QueueTask, pending []QueueTask) []QueueTask {
	if budget <= 0 {
		return nil
	}
	inFlight := 0
	for _, t := range processing {
		inFlight += t.NumberOfRemoteRequests
	}
	remaining := budget - inFlight

	ordered := make([]QueueTask, len(pending))
	copy(ordered, pending)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var admitted []QueueTask
	for _, t := range ordered {
		if t.NumberOfRemoteRequests > budget {
			// Oversized task: cannot ever fit the budget. Let it run alone.
			if inFlight == 0 && len(admitted) == 0 {
				return []QueueTask{t}
			}
			continue
		}
		if t.NumberOfRemoteRequests > remaining {
			continue
		}
		admitted = append(admitted, t)
		remaining -= t.NumberOfRemoteRequests
	}
	return admitted
}

// QueueTaskRepository defines persistence for the task queue
type QueueTaskRepository interface {
	// FindByID finds a task
	FindByID(ctx context.Context, id uuid.UUID) (*QueueTask, error)

	// FindPending returns the dispatchable tasks of one channel
	FindPending(ctx context.Context, channelID uuid.UUID) ([]QueueTask, error)

	// FindProcessing returns the in-flight tasks of one channel
	FindProcessing(ctx context.Context, channelID uuid.UUID) ([]QueueTask, error)

	// FindByChannel returns the most recent tasks of one channel, optionally
	// narrowed to one status. An empty status matches every state.
	FindByChannel(ctx context.Context, tenantID, channelID uuid.UUID, status TaskStatus, limit int) ([]QueueTask, error)

	// CountByStatus returns how many tasks of one channel sit in each state
	CountByStatus(ctx context.Context, tenantID, channelID uuid.UUID) (map[TaskStatus]int64, error)

	// ActiveChannelIDs returns the channels that currently have pending work
	ActiveChannelIDs(ctx context.Context) ([]uuid.UUID, error)

	// Save creates or updates a task
	Save(ctx context.Context, task *QueueTask) error

	// Delete removes a task
	Delete(ctx context.Context, id uuid.UUID) error
}
