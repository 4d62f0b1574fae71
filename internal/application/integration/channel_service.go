package integration

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ChannelService manages sales channel connections
type ChannelService struct {
	channels integration.SalesChannelRepository
	log      *zap.Logger
}

// NewChannelService creates a new ChannelService
func NewChannelService(channels integration.SalesChannelRepository, log *zap.Logger) *ChannelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChannelService{channels: channels, log: log}
}

// List returns every channel of a tenant
func (s *ChannelService) List(ctx context.Context, tenantID uuid.UUID) ([]ChannelResponse, error) {
	channels, err := s.channels.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		out = append(out, ToChannelResponse(&channels[i]))
	}
	return out, nil
}

// GetByID returns one channel
func (s *ChannelService) GetByID(ctx context.Context, tenantID, channelID uuid.UUID) (*ChannelResponse, error) {
	channel, err := s.channels.FindByID(ctx, tenantID, channelID)
	if err != nil {
		return nil, err
	}
	resp := ToChannelResponse(channel)
	return &resp, nil
}

// Create connects a new sales channel
func (s *ChannelService) Create(ctx context.Context, tenantID uuid.UUID, req CreateChannelRequest) (*ChannelResponse, error) {
	channel, err := integration.NewSalesChannel(tenantID, integration.ChannelCode(req.Code), req.Hostname)
	if err != nil {
		return nil, err
	}
	if req.RequestsPerMinute != nil {
		if err := channel.SetRequestLimit(*req.RequestsPerMinute); err != nil {
			return nil, err
		}
	}
	if req.MaxRetries != nil {
		if err := channel.SetMaxRetries(*req.MaxRetries); err != nil {
			return nil, err
		}
	}
	if req.Settings != "" {
		if !json.Valid([]byte(req.Settings)) {
			return nil, shared.NewValidationError("settings", "Settings must be a JSON document")
		}
		channel.Settings = req.Settings
	}
	if err := s.channels.Save(ctx, channel); err != nil {
		return nil, err
	}
	s.log.Info("channel connected",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", req.Code),
		zap.String("hostname", req.Hostname))
	resp := ToChannelResponse(channel)
	return &resp, nil
}

// Update reconfigures an existing channel
func (s *ChannelService) Update(ctx context.Context, tenantID, channelID uuid.UUID, req UpdateChannelRequest) (*ChannelResponse, error) {
	channel, err := s.channels.FindByID(ctx, tenantID, channelID)
	if err != nil {
		return nil, err
	}

	if req.Hostname != nil {
		if *req.Hostname == "" {
			return nil, shared.NewValidationError("hostname", "Channel hostname cannot be empty")
		}
		channel.Hostname = *req.Hostname
		channel.Touch()
	}
	if req.RequestsPerMinute != nil {
		if err := channel.SetRequestLimit(*req.RequestsPerMinute); err != nil {
			return nil, err
		}
	}
	if req.MaxRetries != nil {
		if err := channel.SetMaxRetries(*req.MaxRetries); err != nil {
			return nil, err
		}
	}
	if req.Settings != nil {
		if !json.Valid([]byte(*req.Settings)) {
			return nil, shared.NewValidationError("settings", "Settings must be a JSON document")
		}
		channel.Settings = *req.Settings
		channel.Touch()
	}
	if req.Active != nil {
		if *req.Active {
			channel.Activate()
		} else {
			channel.Deactivate()
		}
	}

	if err := s.channels.Save(ctx, channel); err != nil {
		return nil, err
	}
	resp := ToChannelResponse(channel)
	return &resp, nil
}

// Delete disconnects a channel
func (s *ChannelService) Delete(ctx context.Context, tenantID, channelID uuid.UUID) error {
	return s.channels.Delete(ctx, tenantID, channelID)
}
