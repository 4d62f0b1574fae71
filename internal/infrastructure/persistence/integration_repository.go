package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSalesChannelRepository implements integration.SalesChannelRepository
type GormSalesChannelRepository struct {
	db *gorm.DB
}

// NewGormSalesChannelRepository creates a new GormSalesChannelRepository
func NewGormSalesChannelRepository(db *gorm.DB) *GormSalesChannelRepository {
	return &GormSalesChannelRepository{db: db}
}

// FindByID finds a channel within a tenant
func (r *GormSalesChannelRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*integration.SalesChannel, error) {
	var channel integration.SalesChannel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &channel, nil
}

// FindByCode returns all channels of one kind for a tenant
func (r *GormSalesChannelRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code integration.ChannelCode) ([]integration.SalesChannel, error) {
	var channels []integration.SalesChannel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// FindAllForTenant returns every channel of a tenant, newest first
func (r *GormSalesChannelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]integration.SalesChannel, error) {
	var channels []integration.SalesChannel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// FindActive returns all active channels of a tenant
func (r *GormSalesChannelRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]integration.SalesChannel, error) {
	var channels []integration.SalesChannel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// Save creates or updates a channel
func (r *GormSalesChannelRepository) Save(ctx context.Context, channel *integration.SalesChannel) error {
	return r.db.WithContext(ctx).Save(channel).Error
}

// Delete removes a channel
func (r *GormSalesChannelRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&integration.SalesChannel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRemoteProductRepository implements integration.RemoteProductRepository
type GormRemoteProductRepository struct {
	db *gorm.DB
}

// NewGormRemoteProductRepository creates a new GormRemoteProductRepository
func NewGormRemoteProductRepository(db *gorm.DB) *GormRemoteProductRepository {
	return &GormRemoteProductRepository{db: db}
}

// FindByID finds a mirror row
func (r *GormRemoteProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.RemoteProduct, error) {
	var mirror integration.RemoteProduct
	if err := r.db.WithContext(ctx).First(&mirror, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mirror, nil
}

// FindByLocalProduct finds the mirror of a local product on one channel
func (r *GormRemoteProductRepository) FindByLocalProduct(ctx context.Context, tenantID, channelID, localProductID uuid.UUID) (*integration.RemoteProduct, error) {
	var mirror integration.RemoteProduct
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sales_channel_id = ? AND local_product_id = ?", tenantID, channelID, localProductID).
		First(&mirror).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mirror, nil
}

// FindByRemoteID finds a mirror by the channel-side identifier
func (r *GormRemoteProductRepository) FindByRemoteID(ctx context.Context, tenantID, channelID uuid.UUID, remoteID string) (*integration.RemoteProduct, error) {
	var mirror integration.RemoteProduct
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sales_channel_id = ? AND remote_id = ?", tenantID, channelID, remoteID).
		First(&mirror).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mirror, nil
}

// FindVariations returns all variation mirrors under a parent mirror
func (r *GormRemoteProductRepository) FindVariations(ctx context.Context, tenantID, remoteParentID uuid.UUID) ([]integration.RemoteProduct, error) {
	var mirrors []integration.RemoteProduct
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remote_parent_id = ?", tenantID, remoteParentID).
		Find(&mirrors).Error; err != nil {
		return nil, err
	}
	return mirrors, nil
}

// Save creates or updates a mirror row
func (r *GormRemoteProductRepository) Save(ctx context.Context, rp *integration.RemoteProduct) error {
	return r.db.WithContext(ctx).Save(rp).Error
}

// Delete removes a mirror row
func (r *GormRemoteProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&integration.RemoteProduct{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRemoteMirrorRepository implements integration.RemoteMirrorRepository
// for the property and image child mirrors
type GormRemoteMirrorRepository struct {
	db *gorm.DB
}

// NewGormRemoteMirrorRepository creates a new GormRemoteMirrorRepository
func NewGormRemoteMirrorRepository(db *gorm.DB) *GormRemoteMirrorRepository {
	return &GormRemoteMirrorRepository{db: db}
}

// FindPropertiesByRemoteProduct returns all property mirrors of one product mirror
func (r *GormRemoteMirrorRepository) FindPropertiesByRemoteProduct(ctx context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteProperty, error) {
	var mirrors []integration.RemoteProperty
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remote_product_id = ?", tenantID, remoteProductID).
		Find(&mirrors).Error; err != nil {
		return nil, err
	}
	return mirrors, nil
}

// SaveProperty creates or updates a property mirror
func (r *GormRemoteMirrorRepository) SaveProperty(ctx context.Context, rp *integration.RemoteProperty) error {
	return r.db.WithContext(ctx).Save(rp).Error
}

// DeleteProperty removes a property mirror
func (r *GormRemoteMirrorRepository) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&integration.RemoteProperty{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindImagesByRemoteProduct returns all image mirrors of one product mirror
func (r *GormRemoteMirrorRepository) FindImagesByRemoteProduct(ctx context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteImageAssociation, error) {
	var mirrors []integration.RemoteImageAssociation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remote_product_id = ?", tenantID, remoteProductID).
		Find(&mirrors).Error; err != nil {
		return nil, err
	}
	return mirrors, nil
}

// SaveImage creates or updates an image mirror
func (r *GormRemoteMirrorRepository) SaveImage(ctx context.Context, ria *integration.RemoteImageAssociation) error {
	return r.db.WithContext(ctx).Save(ria).Error
}

// DeleteImage removes an image mirror
func (r *GormRemoteMirrorRepository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&integration.RemoteImageAssociation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRemoteLogRepository implements integration.RemoteLogRepository
type GormRemoteLogRepository struct {
	db *gorm.DB
}

// NewGormRemoteLogRepository creates a new GormRemoteLogRepository
func NewGormRemoteLogRepository(db *gorm.DB) *GormRemoteLogRepository {
	return &GormRemoteLogRepository{db: db}
}

// Append stores a log entry
func (r *GormRemoteLogRepository) Append(ctx context.Context, log *integration.RemoteLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByRemoteProduct returns the full log stream of a product mirror,
// oldest first
func (r *GormRemoteLogRepository) FindByRemoteProduct(ctx context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteLog, error) {
	var logs []integration.RemoteLog
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remote_product_id = ?", tenantID, remoteProductID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindByChannel returns the most recent entries for a channel
func (r *GormRemoteLogRepository) FindByChannel(ctx context.Context, tenantID, channelID uuid.UUID, limit int) ([]integration.RemoteLog, error) {
	var logs []integration.RemoteLog
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sales_channel_id = ?", tenantID, channelID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// GormQueueTaskRepository implements integration.QueueTaskRepository
type GormQueueTaskRepository struct {
	db *gorm.DB
}

// NewGormQueueTaskRepository creates a new GormQueueTaskRepository
func NewGormQueueTaskRepository(db *gorm.DB) *GormQueueTaskRepository {
	return &GormQueueTaskRepository{db: db}
}

// FindByID finds a task
func (r *GormQueueTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.QueueTask, error) {
	var task integration.QueueTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindPending returns the dispatchable tasks of one channel, highest
// priority first, then oldest first
func (r *GormQueueTaskRepository) FindPending(ctx context.Context, channelID uuid.UUID) ([]integration.QueueTask, error) {
	var tasks []integration.QueueTask
	if err := r.db.WithContext(ctx).
		Where("sales_channel_id = ? AND status = ?", channelID, integration.TaskStatusPending).
		Order("priority DESC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindProcessing returns the in-flight tasks of one channel
func (r *GormQueueTaskRepository) FindProcessing(ctx context.Context, channelID uuid.UUID) ([]integration.QueueTask, error) {
	var tasks []integration.QueueTask
	if err := r.db.WithContext(ctx).
		Where("sales_channel_id = ? AND status = ?", channelID, integration.TaskStatusProcessing).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByChannel returns the most recent tasks of one channel, optionally
// narrowed to one status
func (r *GormQueueTaskRepository) FindByChannel(ctx context.Context, tenantID, channelID uuid.UUID, status integration.TaskStatus, limit int) ([]integration.QueueTask, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sales_channel_id = ?", tenantID, channelID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var tasks []integration.QueueTask
	if err := query.Order("created_at DESC").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByStatus returns how many tasks of one channel sit in each state
func (r *GormQueueTaskRepository) CountByStatus(ctx context.Context, tenantID, channelID uuid.UUID) (map[integration.TaskStatus]int64, error) {
	var rows []struct {
		Status integration.TaskStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&integration.QueueTask{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ? AND sales_channel_id = ?", tenantID, channelID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[integration.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ActiveChannelIDs returns the channels that currently have pending work
func (r *GormQueueTaskRepository) ActiveChannelIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&integration.QueueTask{}).
		Where("status = ?", integration.TaskStatusPending).
		Distinct("sales_channel_id").
		Pluck("sales_channel_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a task
func (r *GormQueueTaskRepository) Save(ctx context.Context, task *integration.QueueTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task
func (r *GormQueueTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&integration.QueueTask{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
