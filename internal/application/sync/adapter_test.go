package sync

import (
	"context"
	"errors"
	"strconv"

	"github.com/pim/backend/internal/domain/integration"
)

var errRemoteDown = errors.New("remote unavailable")

// scriptedAdapter is a programmable in-memory channel used by the factory
// tests. Remote products are keyed by SKU the way real channels behave.
type scriptedAdapter struct {
	code integration.ChannelCode

	createErr    error
	updateErr    error
	failCreates  int
	duplicateSKU map[string]string

	nextID  int
	remote  map[string]*integration.RemoteProductState
	creates []integration.ProductPayload
	updates []integration.ProductPayload
	deletes []string
	images  map[string][]string
}

func newScriptedAdapter() *scriptedAdapter {
	return &scriptedAdapter{
		code:         integration.ChannelCodeShopify,
		duplicateSKU: make(map[string]string),
		remote:       make(map[string]*integration.RemoteProductState),
		images:       make(map[string][]string),
	}
}

func (a *scriptedAdapter) Code() integration.ChannelCode { return a.code }

func (a *scriptedAdapter) CreateProduct(_ context.Context, _ *integration.SalesChannel, payload integration.ProductPayload) (integration.CreateResult, error) {
	if a.failCreates > 0 {
		a.failCreates--
		return integration.CreateResult{}, errRemoteDown
	}
	if a.createErr != nil {
		return integration.CreateResult{}, a.createErr
	}
	if remoteID, ok := a.duplicateSKU[payload.SKU]; ok {
		return integration.CreateResult{RemoteID: remoteID, AlreadyExists: true}, nil
	}
	a.nextID++
	remoteID := "rp-" + strconv.Itoa(a.nextID)
	a.remote[payload.SKU] = &integration.RemoteProductState{RemoteID: remoteID, SKU: payload.SKU, Name: payload.Name, Active: payload.Active}
	a.creates = append(a.creates, payload)
	return integration.CreateResult{RemoteID: remoteID}, nil
}

func (a *scriptedAdapter) UpdateProduct(_ context.Context, _ *integration.SalesChannel, remoteID string, payload integration.ProductPayload) error {
	if a.updateErr != nil {
		return a.updateErr
	}
	a.updates = append(a.updates, payload)
	return nil
}

func (a *scriptedAdapter) DeleteProduct(_ context.Context, _ *integration.SalesChannel, remoteID string) error {
	a.deletes = append(a.deletes, remoteID)
	return nil
}

func (a *scriptedAdapter) FetchProduct(_ context.Context, _ *integration.SalesChannel, sku string) (*integration.RemoteProductState, error) {
	if state, ok := a.remote[sku]; ok {
		return state, nil
	}
	if remoteID, ok := a.duplicateSKU[sku]; ok {
		return &integration.RemoteProductState{RemoteID: remoteID, SKU: sku}, nil
	}
	return nil, integration.ErrRemoteProductNotFound
}

func (a *scriptedAdapter) EnsureProperty(_ context.Context, _ *integration.SalesChannel, payload integration.PropertyPayload) (string, error) {
	return "attr-" + payload.Code, nil
}

func (a *scriptedAdapter) AssignImage(_ context.Context, _ *integration.SalesChannel, remoteID string, payload integration.ImagePayload) (string, error) {
	a.nextID++
	imageID := "img-" + strconv.Itoa(a.nextID)
	a.images[remoteID] = append(a.images[remoteID], imageID)
	return imageID, nil
}

func (a *scriptedAdapter) RemoveImage(_ context.Context, _ *integration.SalesChannel, remoteID, remoteImageID string) error {
	kept := a.images[remoteID][:0]
	for _, id := range a.images[remoteID] {
		if id != remoteImageID {
			kept = append(kept, id)
		}
	}
	a.images[remoteID] = kept
	return nil
}
