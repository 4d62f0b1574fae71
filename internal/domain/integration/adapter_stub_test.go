package integration

import "context"

type stubAdapter struct {
	code ChannelCode
}

func (s stubAdapter) Code() ChannelCode { return s.code }

func (s stubAdapter) CreateProduct(ctx context.Context, channel *SalesChannel, payload ProductPayload) (CreateResult, error) {
	return CreateResult{RemoteID: "stub-1"}, nil
}

func (s stubAdapter) UpdateProduct(ctx context.Context, channel *SalesChannel, remoteID string, payload ProductPayload) error {
	return nil
}

func (s stubAdapter) DeleteProduct(ctx context.Context, channel *SalesChannel, remoteID string) error {
	return nil
}

func (s stubAdapter) FetchProduct(ctx context.Context, channel *SalesChannel, sku string) (*RemoteProductState, error) {
	return nil, ErrRemoteProductNotFound
}

func (s stubAdapter) EnsureProperty(ctx context.Context, channel *SalesChannel, payload PropertyPayload) (string, error) {
	return "stub-prop-1", nil
}

func (s stubAdapter) AssignImage(ctx context.Context, channel *SalesChannel, remoteID string, payload ImagePayload) (string, error) {
	return "stub-img-1", nil
}

func (s stubAdapter) RemoveImage(ctx context.Context, channel *SalesChannel, remoteID, remoteImageID string) error {
	return nil
}
