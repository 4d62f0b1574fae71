package integration

import (
	"context"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"github.com/pim/backend/internal/infrastructure/queue"
	"go.uber.org/zap"
)

// svcStore is the shared backing state of the in-memory repository fakes
type svcStore struct {
	channels    []*integration.SalesChannel
	tasks       []*integration.QueueTask
	mirrors     []*integration.RemoteProduct
	logs        []*integration.RemoteLog
	products    []*catalog.Product
	mediaAssign []catalog.MediaProductThrough
	confEdges   []catalog.ConfigurableVariation
}

func newTestSyncService() (*SyncService, *svcStore) {
	store := &svcStore{}
	enqueuer := queue.NewEnqueuer(&fakeTaskRepo{store}, nil, 0, zap.NewNop())
	svc := NewSyncService(
		&fakeChannelRepo{store},
		&fakeTaskRepo{store},
		&fakeMirrorRepo{store},
		&fakeLogRepo{store},
		&fakeProductRepo{store},
		&fakeMediaRepo{store},
		&fakeVariationRepo{store},
		enqueuer,
		zap.NewNop(),
	)
	return svc, store
}

type fakeChannelRepo struct{ s *svcStore }

func (f *fakeChannelRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*integration.SalesChannel, error) {
	for _, c := range f.s.channels {
		if c.TenantID == tenantID && c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeChannelRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code integration.ChannelCode) ([]integration.SalesChannel, error) {
	var out []integration.SalesChannel
	for _, c := range f.s.channels {
		if c.TenantID == tenantID && c.Code == code {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]integration.SalesChannel, error) {
	var out []integration.SalesChannel
	for _, c := range f.s.channels {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) FindActive(_ context.Context, tenantID uuid.UUID) ([]integration.SalesChannel, error) {
	var out []integration.SalesChannel
	for _, c := range f.s.channels {
		if c.TenantID == tenantID && c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) Save(_ context.Context, channel *integration.SalesChannel) error {
	for i, c := range f.s.channels {
		if c.ID == channel.ID {
			f.s.channels[i] = channel
			return nil
		}
	}
	f.s.channels = append(f.s.channels, channel)
	return nil
}

func (f *fakeChannelRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	for i, c := range f.s.channels {
		if c.TenantID == tenantID && c.ID == id {
			f.s.channels = append(f.s.channels[:i], f.s.channels[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeTaskRepo struct{ s *svcStore }

func (f *fakeTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.QueueTask, error) {
	for _, t := range f.s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTaskRepo) FindPending(_ context.Context, channelID uuid.UUID) ([]integration.QueueTask, error) {
	return f.byStatus(channelID, integration.TaskStatusPending), nil
}

func (f *fakeTaskRepo) FindProcessing(_ context.Context, channelID uuid.UUID) ([]integration.QueueTask, error) {
	return f.byStatus(channelID, integration.TaskStatusProcessing), nil
}

func (f *fakeTaskRepo) byStatus(channelID uuid.UUID, status integration.TaskStatus) []integration.QueueTask {
	var out []integration.QueueTask
	for _, t := range f.s.tasks {
		if t.SalesChannelID == channelID && t.Status == status {
			out = append(out, *t)
		}
	}
	return out
}

func (f *fakeTaskRepo) FindByChannel(_ context.Context, tenantID, channelID uuid.UUID, status integration.TaskStatus, limit int) ([]integration.QueueTask, error) {
	var out []integration.QueueTask
	for _, t := range f.s.tasks {
		if t.TenantID != tenantID || t.SalesChannelID != channelID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, *t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) CountByStatus(_ context.Context, tenantID, channelID uuid.UUID) (map[integration.TaskStatus]int64, error) {
	counts := make(map[integration.TaskStatus]int64)
	for _, t := range f.s.tasks {
		if t.TenantID == tenantID && t.SalesChannelID == channelID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

func (f *fakeTaskRepo) ActiveChannelIDs(_ context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, t := range f.s.tasks {
		if t.Status == integration.TaskStatusPending && !seen[t.SalesChannelID] {
			seen[t.SalesChannelID] = true
			out = append(out, t.SalesChannelID)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Save(_ context.Context, task *integration.QueueTask) error {
	for i, t := range f.s.tasks {
		if t.ID == task.ID {
			f.s.tasks[i] = task
			return nil
		}
	}
	f.s.tasks = append(f.s.tasks, task)
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range f.s.tasks {
		if t.ID == id {
			f.s.tasks = append(f.s.tasks[:i], f.s.tasks[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeMirrorRepo struct{ s *svcStore }

func (f *fakeMirrorRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.RemoteProduct, error) {
	for _, m := range f.s.mirrors {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMirrorRepo) FindByLocalProduct(_ context.Context, tenantID, channelID, localProductID uuid.UUID) (*integration.RemoteProduct, error) {
	for _, m := range f.s.mirrors {
		if m.TenantID == tenantID && m.SalesChannelID == channelID && m.LocalProductID == localProductID {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMirrorRepo) FindByRemoteID(_ context.Context, tenantID, channelID uuid.UUID, remoteID string) (*integration.RemoteProduct, error) {
	for _, m := range f.s.mirrors {
		if m.TenantID == tenantID && m.SalesChannelID == channelID && m.RemoteID == remoteID {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMirrorRepo) FindVariations(_ context.Context, tenantID, remoteParentID uuid.UUID) ([]integration.RemoteProduct, error) {
	var out []integration.RemoteProduct
	for _, m := range f.s.mirrors {
		if m.TenantID == tenantID && m.RemoteParentID != nil && *m.RemoteParentID == remoteParentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMirrorRepo) Save(_ context.Context, rp *integration.RemoteProduct) error {
	for i, m := range f.s.mirrors {
		if m.ID == rp.ID {
			f.s.mirrors[i] = rp
			return nil
		}
	}
	f.s.mirrors = append(f.s.mirrors, rp)
	return nil
}

func (f *fakeMirrorRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range f.s.mirrors {
		if m.ID == id {
			f.s.mirrors = append(f.s.mirrors[:i], f.s.mirrors[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeLogRepo struct{ s *svcStore }

func (f *fakeLogRepo) Append(_ context.Context, log *integration.RemoteLog) error {
	f.s.logs = append(f.s.logs, log)
	return nil
}

func (f *fakeLogRepo) FindByRemoteProduct(_ context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteLog, error) {
	var out []integration.RemoteLog
	for _, l := range f.s.logs {
		if l.TenantID == tenantID && l.RemoteProductID != nil && *l.RemoteProductID == remoteProductID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLogRepo) FindByChannel(_ context.Context, tenantID, channelID uuid.UUID, limit int) ([]integration.RemoteLog, error) {
	var out []integration.RemoteLog
	for _, l := range f.s.logs {
		if l.TenantID == tenantID && l.SalesChannelID == channelID {
			out = append(out, *l)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// fakeProductRepo embeds the interface and implements only what the
// services under test reach for
type fakeProductRepo struct{ s *svcStore }

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProductRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.s.products {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.s.products {
		for _, id := range ids {
			if p.TenantID == tenantID && p.ID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ExistsBySKU(_ context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	f.s.products = append(f.s.products, product)
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	for i, p := range f.s.products {
		if p.TenantID == tenantID && p.ID == id {
			f.s.products = append(f.s.products[:i], f.s.products[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeProductRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range f.s.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type fakeMediaRepo struct{ s *svcStore }

func (f *fakeMediaRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*catalog.Media, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeMediaRepo) FindBySourceURL(_ context.Context, _ uuid.UUID, _ string) (*catalog.Media, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeMediaRepo) Save(_ context.Context, _ *catalog.Media) error { return nil }

func (f *fakeMediaRepo) FindAssignment(_ context.Context, _, _, _ uuid.UUID, _ *uuid.UUID) (*catalog.MediaProductThrough, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeMediaRepo) FindAssignmentsByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.MediaProductThrough, error) {
	var out []catalog.MediaProductThrough
	for _, a := range f.s.mediaAssign {
		if a.TenantID == tenantID && a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) SaveAssignment(_ context.Context, through *catalog.MediaProductThrough) error {
	f.s.mediaAssign = append(f.s.mediaAssign, *through)
	return nil
}

func (f *fakeMediaRepo) DeleteAssignment(_ context.Context, _ uuid.UUID) error { return nil }

type fakeVariationRepo struct{ s *svcStore }

func (f *fakeVariationRepo) FindConfigurable(_ context.Context, tenantID, parentID, variationID uuid.UUID) (*catalog.ConfigurableVariation, error) {
	for i := range f.s.confEdges {
		e := &f.s.confEdges[i]
		if e.TenantID == tenantID && e.ParentID == parentID && e.VariationID == variationID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeVariationRepo) FindVariationsOf(_ context.Context, tenantID, parentID uuid.UUID) ([]catalog.ConfigurableVariation, error) {
	var out []catalog.ConfigurableVariation
	for _, e := range f.s.confEdges {
		if e.TenantID == tenantID && e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeVariationRepo) SaveConfigurable(_ context.Context, edge *catalog.ConfigurableVariation) error {
	f.s.confEdges = append(f.s.confEdges, *edge)
	return nil
}

func (f *fakeVariationRepo) DeleteConfigurable(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeVariationRepo) FindBundle(_ context.Context, _, _, _ uuid.UUID) (*catalog.BundleVariation, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeVariationRepo) FindChildrenOf(_ context.Context, _, _ uuid.UUID) ([]catalog.BundleVariation, error) {
	return nil, nil
}

func (f *fakeVariationRepo) SaveBundle(_ context.Context, _ *catalog.BundleVariation) error {
	return nil
}
