package importer

import "context"

type suppressAutoUpdateKey struct{}

// WithAutoPriceUpdateSuppressed marks the context so the automatic price
// recompute receiver stays quiet for writes performed under it. Bulk price
// list imports use this instead of disconnecting the receiver globally, so
// concurrent imports on other goroutines are unaffected.
func WithAutoPriceUpdateSuppressed(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressAutoUpdateKey{}, true)
}

// AutoPriceUpdateSuppressed reports whether the receiver should skip
// recomputation for this context
func AutoPriceUpdateSuppressed(ctx context.Context) bool {
	v, _ := ctx.Value(suppressAutoUpdateKey{}).(bool)
	return v
}
