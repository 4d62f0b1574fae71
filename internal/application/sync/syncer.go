package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/integration"
	"go.uber.org/zap"
)

// Repositories bundles the persistence ports the sync layer needs
type Repositories struct {
	Products     catalog.ProductRepository
	Translations catalog.TranslationRepository
	EanCodes     catalog.EanCodeRepository
	Variations   catalog.VariationRepository
	Properties   catalog.PropertyRepository
	Assignments  catalog.ProductPropertyRepository
	Rules        catalog.RuleRepository
	Prices       catalog.SalesPriceRepository
	Media        catalog.MediaRepository

	Mirrors  integration.RemoteProductRepository
	Children integration.RemoteMirrorRepository
	Logs     integration.RemoteLogRepository
}

// Syncer is the factory for outbound sync operations. One Syncer serves all
// channels; the adapter is resolved per operation from the registry.
type Syncer struct {
	repos    Repositories
	adapters *integration.AdapterRegistry
	log      *zap.Logger
}

// NewSyncer creates a syncer over the given ports
func NewSyncer(repos Repositories, adapters *integration.AdapterRegistry, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{repos: repos, adapters: adapters, log: log}
}

// Product builds the full sync pipeline for one local product on one channel
func (s *Syncer) Product(channel *integration.SalesChannel, productID uuid.UUID) (*ProductSyncFactory, error) {
	adapter, err := s.adapters.Resolve(channel.Code)
	if err != nil {
		return nil, err
	}
	return &ProductSyncFactory{s: s, channel: channel, adapter: adapter, productID: productID}, nil
}

// Delete builds the remote delete operation for one local product
func (s *Syncer) Delete(channel *integration.SalesChannel, productID uuid.UUID) (*DeleteFactory, error) {
	adapter, err := s.adapters.Resolve(channel.Code)
	if err != nil {
		return nil, err
	}
	return &DeleteFactory{s: s, channel: channel, adapter: adapter, productID: productID}, nil
}

// logAttempt records one outbound action and refreshes the mirror's
// outdated flag from the updated log stream
func (s *Syncer) logAttempt(ctx context.Context, channel *integration.SalesChannel, mirror *integration.RemoteProduct, action integration.LogAction, identifier, payload string, attemptErr error) {
	var entry *integration.RemoteLog
	if attemptErr != nil {
		entry = integration.NewFailedRemoteLog(channel.TenantID, channel.ID, action, identifier, attemptErr.Error())
	} else {
		entry = integration.NewRemoteLog(channel.TenantID, channel.ID, action, identifier)
	}
	if payload != "" {
		entry.WithPayload(payload)
	}
	if mirror != nil {
		entry.ForRemoteProduct(mirror.ID)
		// A product-level success fixes earlier child-step failures too
		entry.WithFixingIdentifier(productIdentifier(channel.ID, mirror.LocalProductID))
	}
	if err := s.repos.Logs.Append(ctx, entry); err != nil {
		s.log.Warn("failed to append remote log", zap.Error(err))
		return
	}
	if mirror != nil {
		s.refreshOutdated(ctx, mirror)
	}
}

// refreshOutdated recomputes the tenant-visible broken flag structurally
// from the mirror's log stream
func (s *Syncer) refreshOutdated(ctx context.Context, mirror *integration.RemoteProduct) {
	logs, err := s.repos.Logs.FindByRemoteProduct(ctx, mirror.TenantID, mirror.ID)
	if err != nil {
		s.log.Warn("failed to load remote logs", zap.Error(err))
		return
	}
	open := integration.UnresolvedErrors(logs)
	mirror.SetOutdated(len(open) > 0)
	if err := s.repos.Mirrors.Save(ctx, mirror); err != nil {
		s.log.Warn("failed to save mirror", zap.Error(err))
	}
}

// productIdentifier names the product-level sync sub-operation in the log
// stream. Child steps reference it as their fixing identifier.
func productIdentifier(channelID, localProductID uuid.UUID) string {
	return fmt.Sprintf("product:%s:%s", channelID, localProductID)
}

func imageIdentifier(channelID, localProductID, mediaID uuid.UUID) string {
	return fmt.Sprintf("image:%s:%s:%s", channelID, localProductID, mediaID)
}

func propertyIdentifier(channelID, localProductID, propertyID uuid.UUID) string {
	return fmt.Sprintf("property:%s:%s:%s", channelID, localProductID, propertyID)
}
