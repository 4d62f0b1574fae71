package sync

import "context"

// Reconciler drives a remote mirror collection to match the current local
// set. Apply is called once per local item and returns the mirror key it
// created or updated; afterwards every existing mirror key Apply did not
// touch is deleted. The result converges to exactly the local set in
// O(local + remote), regardless of iteration order.
type Reconciler[L any, K comparable] struct {
	// Apply gets-or-creates/updates the mirror of one local item and
	// returns its stable key
	Apply func(ctx context.Context, local L) (K, error)

	// Delete removes one orphaned mirror
	Delete func(ctx context.Context, key K) error
}

// Run reconciles locals against the existing mirror keys
func (r Reconciler[L, K]) Run(ctx context.Context, locals []L, existing []K) error {
	touched := make(map[K]bool, len(locals))
	for _, local := range locals {
		key, err := r.Apply(ctx, local)
		if err != nil {
			return err
		}
		touched[key] = true
	}
	for _, key := range existing {
		if touched[key] {
			continue
		}
		if err := r.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
