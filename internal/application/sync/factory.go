package sync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateFactory pushes one payload as a new remote product. The mirror row
// is saved whatever the outcome: a failed create leaves
// SuccessfullyCreated=false behind so the next update can self-heal.
type CreateFactory struct {
	s       *Syncer
	channel *integration.SalesChannel
	adapter integration.ChannelAdapter
	mirror  *integration.RemoteProduct
	payload integration.ProductPayload
}

// Run performs the remote create. A duplicate on the channel side is
// treated as success: the existing remote product is fetched and adopted,
// then brought up to date.
func (c *CreateFactory) Run(ctx context.Context) error {
	identifier := productIdentifier(c.channel.ID, c.mirror.LocalProductID)
	body := marshalPayload(c.payload)

	result, err := c.adapter.CreateProduct(ctx, c.channel, c.payload)
	if err != nil {
		c.mirror.MarkCreateFailed()
		if saveErr := c.s.repos.Mirrors.Save(ctx, c.mirror); saveErr != nil {
			c.s.log.Warn("failed to save mirror after create failure", zap.Error(saveErr))
		}
		c.s.logAttempt(ctx, c.channel, c.mirror, integration.LogActionCreate, identifier, body, err)
		return err
	}

	remoteID := result.RemoteID
	if result.AlreadyExists && remoteID == "" {
		state, err := c.adapter.FetchProduct(ctx, c.channel, c.payload.SKU)
		if err != nil {
			c.s.logAttempt(ctx, c.channel, c.mirror, integration.LogActionCreate, identifier, body, err)
			return err
		}
		remoteID = state.RemoteID
	}

	c.mirror.MarkCreated(remoteID)
	if err := c.s.repos.Mirrors.Save(ctx, c.mirror); err != nil {
		return err
	}
	c.s.logAttempt(ctx, c.channel, c.mirror, integration.LogActionCreate, identifier, body, nil)

	// An adopted duplicate may be stale remotely; push the payload once
	if result.AlreadyExists {
		update := &UpdateFactory{s: c.s, channel: c.channel, adapter: c.adapter, mirror: c.mirror, payload: c.payload}
		return update.Run(ctx)
	}
	return nil
}

// UpdateFactory pushes the current payload onto an existing remote product
type UpdateFactory struct {
	s       *Syncer
	channel *integration.SalesChannel
	adapter integration.ChannelAdapter
	mirror  *integration.RemoteProduct
	payload integration.ProductPayload
}

// Run performs the remote update. When the mirror's create never succeeded
// the create is re-run instead and the update is aborted; the next sync
// round completes it.
func (u *UpdateFactory) Run(ctx context.Context) error {
	if u.mirror.NeedsCreate() {
		create := &CreateFactory{s: u.s, channel: u.channel, adapter: u.adapter, mirror: u.mirror, payload: u.payload}
		return create.Run(ctx)
	}

	identifier := productIdentifier(u.channel.ID, u.mirror.LocalProductID)
	body := marshalPayload(u.payload)

	err := u.adapter.UpdateProduct(ctx, u.channel, u.mirror.RemoteID, u.payload)
	u.s.logAttempt(ctx, u.channel, u.mirror, integration.LogActionUpdate, identifier, body, err)
	if err != nil {
		return err
	}
	u.mirror.MarkSynced()
	return u.s.repos.Mirrors.Save(ctx, u.mirror)
}

// DeleteFactory removes the remote product and its local mirror graph
type DeleteFactory struct {
	s         *Syncer
	channel   *integration.SalesChannel
	adapter   integration.ChannelAdapter
	productID uuid.UUID
}

// Run performs the remote delete. A mirror that never made it to the
// channel is deleted locally without a remote call.
func (d *DeleteFactory) Run(ctx context.Context) error {
	mirror, err := d.s.repos.Mirrors.FindByLocalProduct(ctx, d.channel.TenantID, d.channel.ID, d.productID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !mirror.NeedsCreate() {
		identifier := productIdentifier(d.channel.ID, d.productID)
		err := d.adapter.DeleteProduct(ctx, d.channel, mirror.RemoteID)
		d.s.logAttempt(ctx, d.channel, mirror, integration.LogActionDelete, identifier, "", err)
		if err != nil {
			return err
		}
	}
	return d.s.dropMirror(ctx, mirror)
}

// dropMirror removes a product mirror and its child mirrors
func (s *Syncer) dropMirror(ctx context.Context, mirror *integration.RemoteProduct) error {
	properties, err := s.repos.Children.FindPropertiesByRemoteProduct(ctx, mirror.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	for _, p := range properties {
		if err := s.repos.Children.DeleteProperty(ctx, p.ID); err != nil {
			return err
		}
	}
	images, err := s.repos.Children.FindImagesByRemoteProduct(ctx, mirror.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.repos.Children.DeleteImage(ctx, img.ID); err != nil {
			return err
		}
	}
	return s.repos.Mirrors.Delete(ctx, mirror.ID)
}

func marshalPayload(payload integration.ProductPayload) string {
	body, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(body)
}
