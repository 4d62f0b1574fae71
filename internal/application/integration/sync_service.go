package integration

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/pim/backend/internal/infrastructure/queue"
	"go.uber.org/zap"
)

// SyncTaskPayload is the wire shape queued sync tasks carry
type SyncTaskPayload struct {
	ProductID uuid.UUID `json:"product_id"`
}

// SyncService enqueues outbound sync work and exposes the queue and mirror
// state per channel. The actual remote calls run in the worker.
type SyncService struct {
	channels   integration.SalesChannelRepository
	tasks      integration.QueueTaskRepository
	mirrors    integration.RemoteProductRepository
	logs       integration.RemoteLogRepository
	products   catalog.ProductRepository
	media      catalog.MediaRepository
	variations catalog.VariationRepository
	enqueuer   *queue.Enqueuer
	log        *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	channels integration.SalesChannelRepository,
	tasks integration.QueueTaskRepository,
	mirrors integration.RemoteProductRepository,
	logs integration.RemoteLogRepository,
	products catalog.ProductRepository,
	media catalog.MediaRepository,
	variations catalog.VariationRepository,
	enqueuer *queue.Enqueuer,
	log *zap.Logger,
) *SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncService{
		channels:   channels,
		tasks:      tasks,
		mirrors:    mirrors,
		logs:       logs,
		products:   products,
		media:      media,
		variations: variations,
		enqueuer:   enqueuer,
		log:        log,
	}
}

// EnqueueProductSync queues a push of one product to one channel. The task
// type follows the mirror state: a product never created remotely queues a
// create, anything else an update. Returns the queued task, or nil when an
// identical task was suppressed as a duplicate.
func (s *SyncService) EnqueueProductSync(ctx context.Context, tenantID, channelID, productID uuid.UUID) (*TaskResponse, error) {
	channel, err := s.channels.FindByID(ctx, tenantID, channelID)
	if err != nil {
		return nil, err
	}
	if !channel.Active {
		return nil, shared.NewDomainError("CHANNEL_INACTIVE", "Channel is not active")
	}
	product, err := s.products.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	taskType := integration.TaskTypeUpdateProduct
	mirror, err := s.mirrors.FindByLocalProduct(ctx, tenantID, channelID, productID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		taskType = integration.TaskTypeCreateProduct
	case err != nil:
		return nil, err
	case !mirror.SuccessfullyCreated:
		taskType = integration.TaskTypeCreateProduct
	}

	payload, err := json.Marshal(SyncTaskPayload{ProductID: productID})
	if err != nil {
		return nil, err
	}

	task := integration.NewQueueTask(tenantID, channelID, taskType, string(payload), s.estimateCost(ctx, product))
	task.MaxRetries = channel.MaxRetries
	enqueued, err := s.enqueuer.Enqueue(ctx, task)
	if err != nil {
		return nil, err
	}
	if !enqueued {
		return nil, nil
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// EnqueueProductDelete queues removal of one product from one channel
func (s *SyncService) EnqueueProductDelete(ctx context.Context, tenantID, channelID, productID uuid.UUID) (*TaskResponse, error) {
	if _, err := s.channels.FindByID(ctx, tenantID, channelID); err != nil {
		return nil, err
	}
	if _, err := s.mirrors.FindByLocalProduct(ctx, tenantID, channelID, productID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(SyncTaskPayload{ProductID: productID})
	if err != nil {
		return nil, err
	}
	task := integration.NewQueueTask(tenantID, channelID, integration.TaskTypeDeleteProduct, string(payload), 1)
	enqueued, err := s.enqueuer.Enqueue(ctx, task)
	if err != nil {
		return nil, err
	}
	if !enqueued {
		return nil, nil
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// estimateCost predicts how many remote requests a product push makes: one
// for the product itself, one per image, one per variation
func (s *SyncService) estimateCost(ctx context.Context, product *catalog.Product) int {
	cost := 1
	if assignments, err := s.media.FindAssignmentsByProduct(ctx, product.TenantID, product.ID); err == nil {
		cost += len(assignments)
	}
	if product.Type == catalog.ProductTypeConfigurable {
		if edges, err := s.variations.FindVariationsOf(ctx, product.TenantID, product.ID); err == nil {
			cost += len(edges)
		}
	}
	return cost
}

// QueueStatus summarizes the task queue of one channel
func (s *SyncService) QueueStatus(ctx context.Context, tenantID, channelID uuid.UUID) (*QueueStatusResponse, error) {
	if _, err := s.channels.FindByID(ctx, tenantID, channelID); err != nil {
		return nil, err
	}
	counts, err := s.tasks.CountByStatus(ctx, tenantID, channelID)
	if err != nil {
		return nil, err
	}
	recent, err := s.tasks.FindByChannel(ctx, tenantID, channelID, "", 20)
	if err != nil {
		return nil, err
	}

	resp := &QueueStatusResponse{
		ChannelID: channelID,
		Counts:    make(map[string]int64, len(counts)),
	}
	for status, count := range counts {
		resp.Counts[string(status)] = count
	}
	for i := range recent {
		resp.RecentTasks = append(resp.RecentTasks, ToTaskResponse(&recent[i]))
	}
	return resp, nil
}

// ListTasks returns the most recent tasks of one channel, optionally
// narrowed to one status
func (s *SyncService) ListTasks(ctx context.Context, tenantID, channelID uuid.UUID, status string, limit int) ([]TaskResponse, error) {
	if _, err := s.channels.FindByID(ctx, tenantID, channelID); err != nil {
		return nil, err
	}
	if status != "" {
		switch integration.TaskStatus(status) {
		case integration.TaskStatusNew, integration.TaskStatusPending, integration.TaskStatusProcessing,
			integration.TaskStatusProcessed, integration.TaskStatusFailed:
		default:
			return nil, shared.NewValidationError("status", "Unknown task status: "+status)
		}
	}
	tasks, err := s.tasks.FindByChannel(ctx, tenantID, channelID, integration.TaskStatus(status), limit)
	if err != nil {
		return nil, err
	}
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, ToTaskResponse(&tasks[i]))
	}
	return out, nil
}

// RetryTask requeues one terminally failed task with a fresh retry budget
func (s *SyncService) RetryTask(ctx context.Context, tenantID, taskID uuid.UUID) (*TaskResponse, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	if err := task.Retry(); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// RecentLogs returns the latest outbound sync log entries of one channel
func (s *SyncService) RecentLogs(ctx context.Context, tenantID, channelID uuid.UUID, limit int) ([]LogEntryResponse, error) {
	if _, err := s.channels.FindByID(ctx, tenantID, channelID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	logs, err := s.logs.FindByChannel(ctx, tenantID, channelID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LogEntryResponse, 0, len(logs))
	for i := range logs {
		out = append(out, ToLogEntryResponse(&logs[i]))
	}
	return out, nil
}

// MirrorStatus returns the sync state of one product on one channel
func (s *SyncService) MirrorStatus(ctx context.Context, tenantID, channelID, productID uuid.UUID) (*MirrorResponse, error) {
	mirror, err := s.mirrors.FindByLocalProduct(ctx, tenantID, channelID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToMirrorResponse(mirror)
	return &resp, nil
}
