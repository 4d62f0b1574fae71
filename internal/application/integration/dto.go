package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/integration"
)

// CreateChannelRequest represents a request to connect a sales channel
type CreateChannelRequest struct {
	Code              string `json:"code" binding:"required"`
	Hostname          string `json:"hostname" binding:"required,min=1,max=255"`
	RequestsPerMinute *int   `json:"requests_per_minute" binding:"omitempty,min=1"`
	MaxRetries        *int   `json:"max_retries" binding:"omitempty,min=0"`
	Settings          string `json:"settings"`
}

// UpdateChannelRequest represents a request to reconfigure a channel
type UpdateChannelRequest struct {
	Hostname          *string `json:"hostname" binding:"omitempty,min=1,max=255"`
	Active            *bool   `json:"active"`
	RequestsPerMinute *int    `json:"requests_per_minute" binding:"omitempty,min=1"`
	MaxRetries        *int    `json:"max_retries" binding:"omitempty,min=0"`
	Settings          *string `json:"settings"`
}

// ChannelResponse represents a sales channel in API responses. Settings are
// deliberately omitted, they carry credentials.
type ChannelResponse struct {
	ID                uuid.UUID `json:"id"`
	TenantID          uuid.UUID `json:"tenant_id"`
	Code              string    `json:"code"`
	DisplayName       string    `json:"display_name"`
	Hostname          string    `json:"hostname"`
	Active            bool      `json:"active"`
	RequestsPerMinute int       `json:"requests_per_minute"`
	MaxRetries        int       `json:"max_retries"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToChannelResponse converts a domain SalesChannel to ChannelResponse
func ToChannelResponse(c *integration.SalesChannel) ChannelResponse {
	return ChannelResponse{
		ID:                c.ID,
		TenantID:          c.TenantID,
		Code:              c.Code.String(),
		DisplayName:       c.Code.DisplayName(),
		Hostname:          c.Hostname,
		Active:            c.Active,
		RequestsPerMinute: c.RequestsPerMinute,
		MaxRetries:        c.MaxRetries,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// TaskResponse represents a queue task in API responses
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	SalesChannelID uuid.UUID  `json:"sales_channel_id"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Priority       int        `json:"priority"`
	RequestCost    int        `json:"request_cost"`
	RetryCount     int        `json:"retry_count"`
	MaxRetries     int        `json:"max_retries"`
	ErrorHistory   string     `json:"error_history,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// ToTaskResponse converts a domain QueueTask to TaskResponse
func ToTaskResponse(t *integration.QueueTask) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		SalesChannelID: t.SalesChannelID,
		Type:           string(t.Type),
		Status:         string(t.Status),
		Priority:       t.Priority,
		RequestCost:    t.NumberOfRemoteRequests,
		RetryCount:     t.RetryCount,
		MaxRetries:     t.MaxRetries,
		ErrorHistory:   t.ErrorHistory,
		CreatedAt:      t.CreatedAt,
		StartedAt:      t.StartedAt,
		FinishedAt:     t.FinishedAt,
	}
}

// QueueStatusResponse summarizes one channel's task queue
type QueueStatusResponse struct {
	ChannelID   uuid.UUID        `json:"channel_id"`
	Counts      map[string]int64 `json:"counts"`
	RecentTasks []TaskResponse   `json:"recent_tasks"`
}

// LogEntryResponse represents one outbound sync log entry
type LogEntryResponse struct {
	ID              uuid.UUID  `json:"id"`
	RemoteProductID *uuid.UUID `json:"remote_product_id,omitempty"`
	Action          string     `json:"action"`
	Status          string     `json:"status"`
	Identifier      string     `json:"identifier"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToLogEntryResponse converts a domain RemoteLog to LogEntryResponse
func ToLogEntryResponse(l *integration.RemoteLog) LogEntryResponse {
	return LogEntryResponse{
		ID:              l.ID,
		RemoteProductID: l.RemoteProductID,
		Action:          string(l.Action),
		Status:          string(l.Status),
		Identifier:      l.Identifier,
		ErrorMessage:    l.ErrorMessage,
		CreatedAt:       l.CreatedAt,
	}
}

// MirrorResponse represents the sync state of one product on one channel
type MirrorResponse struct {
	ID                  uuid.UUID  `json:"id"`
	LocalProductID      uuid.UUID  `json:"local_product_id"`
	RemoteID            string     `json:"remote_id,omitempty"`
	RemoteSKU           string     `json:"remote_sku,omitempty"`
	IsVariation         bool       `json:"is_variation"`
	SuccessfullyCreated bool       `json:"successfully_created"`
	Outdated            bool       `json:"outdated"`
	OutdatedSince       *time.Time `json:"outdated_since,omitempty"`
	LastSyncAt          *time.Time `json:"last_sync_at,omitempty"`
}

// ToMirrorResponse converts a domain RemoteProduct to MirrorResponse
func ToMirrorResponse(m *integration.RemoteProduct) MirrorResponse {
	return MirrorResponse{
		ID:                  m.ID,
		LocalProductID:      m.LocalProductID,
		RemoteID:            m.RemoteID,
		RemoteSKU:           m.RemoteSKU,
		IsVariation:         m.IsVariation,
		SuccessfullyCreated: m.SuccessfullyCreated,
		Outdated:            m.Outdated,
		OutdatedSince:       m.OutdatedSince,
		LastSyncAt:          m.LastSyncAt,
	}
}
