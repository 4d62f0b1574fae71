package importer

import (
	"context"
	"errors"

	"github.com/pim/backend/internal/domain/shared"
)

// Operation is the generic get-or-create-then-diff-update step every import
// instance runs through. Lookup misses create a fresh row; hits are updated
// through Apply only when AllowEdit is set and only when Apply reports an
// actual change, which keeps write amplification and downstream event noise
// down on replayed payloads.
type Operation[T any] struct {
	// Lookup finds the existing row. A shared.ErrNotFound return switches
	// to the create path; every other error aborts.
	Lookup func(ctx context.Context) (*T, error)

	// Create builds and persists a new row
	Create func(ctx context.Context) (*T, error)

	// Apply copies the supplied payload fields onto an existing row and
	// reports whether anything changed. Absent optional fields must be
	// skipped entirely, not treated as clears.
	Apply func(existing *T) (bool, error)

	// Save persists an existing row Apply changed
	Save func(ctx context.Context, instance *T) error

	// AllowEdit guards the update path. When false an existing match is
	// final and no field is touched.
	AllowEdit bool
}

// Run executes the operation, returning the instance and whether it was
// newly created
func (op Operation[T]) Run(ctx context.Context) (*T, bool, error) {
	existing, err := op.Lookup(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, err
		}
		created, err := op.Create(ctx)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	if !op.AllowEdit || op.Apply == nil {
		return existing, false, nil
	}

	changed, err := op.Apply(existing)
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := op.Save(ctx, existing); err != nil {
			return nil, false, err
		}
	}
	return existing, false, nil
}
