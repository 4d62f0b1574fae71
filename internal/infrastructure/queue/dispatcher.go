package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/integration"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler executes one task type. The handler owns payload decoding; the
// dispatcher only manages lifecycle and pacing.
type Handler func(ctx context.Context, task *integration.QueueTask) error

// Dispatcher pulls PENDING tasks per channel, admits them against the
// channel's per-minute request budget and hands them to a worker pool. The
// actual remote calls are paced by a per-channel rate limiter so a burst of
// admitted tasks cannot exceed the platform's limit inside the minute.
type Dispatcher struct {
	tasks    integration.QueueTaskRepository
	channels integration.SalesChannelRepository
	log      *zap.Logger

	workerCount  int
	pollInterval time.Duration

	mu       sync.Mutex
	handlers map[integration.TaskType]Handler
	limiters map[uuid.UUID]*rate.Limiter
}

// NewDispatcher creates a dispatcher over the task and channel stores
func NewDispatcher(tasks integration.QueueTaskRepository, channels integration.SalesChannelRepository, workerCount int, pollInterval time.Duration, log *zap.Logger) *Dispatcher {
	if workerCount <= 0 {
		workerCount = 4
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		tasks:        tasks,
		channels:     channels,
		log:          log,
		workerCount:  workerCount,
		pollInterval: pollInterval,
		handlers:     make(map[integration.TaskType]Handler),
		limiters:     make(map[uuid.UUID]*rate.Limiter),
	}
}

// RegisterHandler binds a task type to its handler. Registering the same
// type twice panics, the wiring is a startup-time mistake.
func (d *Dispatcher) RegisterHandler(taskType integration.TaskType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[taskType]; exists {
		panic(fmt.Sprintf("queue: handler already registered for %s", taskType))
	}
	d.handlers[taskType] = handler
}

// Run polls for dispatchable work until the context is cancelled. Admitted
// tasks are executed by workerCount goroutines.
func (d *Dispatcher) Run(ctx context.Context) error {
	jobs := make(chan integration.QueueTask)
	var wg sync.WaitGroup
	for i := 0; i < d.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				d.execute(ctx, task)
			}
		}()
	}

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			if err := d.DispatchOnce(ctx, jobs); err != nil {
				d.log.Error("dispatch round failed", zap.Error(err))
			}
		}
	}
}

// DispatchOnce runs one admission round over every channel with pending
// work, marking admitted tasks PROCESSING and handing them to the jobs
// channel
func (d *Dispatcher) DispatchOnce(ctx context.Context, jobs chan<- integration.QueueTask) error {
	channelIDs, err := d.tasks.ActiveChannelIDs(ctx)
	if err != nil {
		return err
	}

	for _, channelID := range channelIDs {
		if err := d.dispatchChannel(ctx, channelID, jobs); err != nil {
			d.log.Error("channel dispatch failed",
				zap.String("channel_id", channelID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (d *Dispatcher) dispatchChannel(ctx context.Context, channelID uuid.UUID, jobs chan<- integration.QueueTask) error {
	pending, err := d.tasks.FindPending(ctx, channelID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	// every task of a channel belongs to the channel's tenant
	channel, err := d.channels.FindByID(ctx, pending[0].TenantID, channelID)
	if err != nil {
		return err
	}
	if !channel.Active {
		return nil
	}

	processing, err := d.tasks.FindProcessing(ctx, channelID)
	if err != nil {
		return err
	}

	admitted := integration.AdmitTasks(channel.RequestsPerMinute, processing, pending)
	for _, task := range admitted {
		if err := task.Start(); err != nil {
			continue
		}
		if err := d.tasks.Save(ctx, &task); err != nil {
			return err
		}
		select {
		case jobs <- task:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// execute runs one task through its handler, pacing the remote calls it
// declared against the channel's limiter
func (d *Dispatcher) execute(ctx context.Context, task integration.QueueTask) {
	limiter := d.limiterFor(task.SalesChannelID, task.TenantID)
	if limiter != nil {
		if err := pace(ctx, limiter, task.NumberOfRemoteRequests); err != nil {
			d.failTask(ctx, &task, err)
			return
		}
	}

	d.mu.Lock()
	handler, ok := d.handlers[task.Type]
	d.mu.Unlock()
	if !ok {
		d.failTask(ctx, &task, fmt.Errorf("queue: no handler for task type %s", task.Type))
		return
	}

	if err := handler(ctx, &task); err != nil {
		d.failTask(ctx, &task, err)
		return
	}
	if err := task.Complete(); err != nil {
		d.log.Error("task completion rejected", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	if err := d.tasks.Save(ctx, &task); err != nil {
		d.log.Error("failed to persist completed task", zap.String("task_id", task.ID.String()), zap.Error(err))
	}
}

// pace blocks until the limiter has released n request slots. Admission lets
// a task whose cost exceeds the whole per-minute budget through alone, so a
// single WaitN would always exceed the burst; such tasks are paced in
// burst-sized chunks instead.
func pace(ctx context.Context, limiter *rate.Limiter, n int) error {
	burst := limiter.Burst()
	if burst <= 0 {
		return fmt.Errorf("queue: limiter burst %d cannot pace %d requests", burst, n)
	}
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (d *Dispatcher) failTask(ctx context.Context, task *integration.QueueTask, cause error) {
	d.log.Warn("task failed",
		zap.String("task_id", task.ID.String()),
		zap.String("type", string(task.Type)),
		zap.Error(cause))
	if err := task.Fail(cause.Error()); err != nil {
		d.log.Error("task failure rejected", zap.String("task_id", task.ID.String()), zap.Error(err))
		return
	}
	if err := d.tasks.Save(ctx, task); err != nil {
		d.log.Error("failed to persist failed task", zap.String("task_id", task.ID.String()), zap.Error(err))
	}
}

// limiterFor returns the per-channel limiter, building it from the channel's
// request budget on first use. A channel that cannot be loaded runs
// unpaced rather than not at all.
func (d *Dispatcher) limiterFor(channelID, tenantID uuid.UUID) *rate.Limiter {
	d.mu.Lock()
	if limiter, ok := d.limiters[channelID]; ok {
		d.mu.Unlock()
		return limiter
	}
	d.mu.Unlock()

	channel, err := d.channels.FindByID(context.Background(), tenantID, channelID)
	if err != nil {
		d.log.Warn("no limiter for channel", zap.String("channel_id", channelID.String()), zap.Error(err))
		return nil
	}
	rpm := channel.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)

	d.mu.Lock()
	d.limiters[channelID] = limiter
	d.mu.Unlock()
	return limiter
}

// RetryNow requeues a terminally failed task with a fresh retry budget
func (d *Dispatcher) RetryNow(ctx context.Context, taskID uuid.UUID) error {
	task, err := d.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := task.Retry(); err != nil {
		return err
	}
	return d.tasks.Save(ctx, task)
}
