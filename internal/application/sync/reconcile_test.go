package sync

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler(t *testing.T) {
	ctx := context.Background()

	t.Run("converges the mirror set to the local set", func(t *testing.T) {
		// remote currently holds {A, B, C}, local moved on to {B, C, D}
		applied := map[string]int{}
		var deleted []string

		r := Reconciler[string, string]{
			Apply: func(_ context.Context, local string) (string, error) {
				applied[local]++
				return local, nil
			},
			Delete: func(_ context.Context, key string) error {
				deleted = append(deleted, key)
				return nil
			},
		}
		require.NoError(t, r.Run(ctx, []string{"B", "C", "D"}, []string{"A", "B", "C"}))

		assert.Equal(t, map[string]int{"B": 1, "C": 1, "D": 1}, applied)
		assert.Equal(t, []string{"A"}, deleted)
	})

	t.Run("result is independent of iteration order", func(t *testing.T) {
		for _, locals := range [][]string{{"B", "C", "D"}, {"D", "B", "C"}, {"C", "D", "B"}} {
			var deleted []string
			r := Reconciler[string, string]{
				Apply:  func(_ context.Context, local string) (string, error) { return local, nil },
				Delete: func(_ context.Context, key string) error { deleted = append(deleted, key); return nil },
			}
			require.NoError(t, r.Run(ctx, locals, []string{"C", "A", "B"}))
			sort.Strings(deleted)
			assert.Equal(t, []string{"A"}, deleted)
		}
	})

	t.Run("empty local set deletes every mirror", func(t *testing.T) {
		var deleted []string
		r := Reconciler[string, string]{
			Apply:  func(_ context.Context, local string) (string, error) { return local, nil },
			Delete: func(_ context.Context, key string) error { deleted = append(deleted, key); return nil },
		}
		require.NoError(t, r.Run(ctx, nil, []string{"A", "B"}))
		assert.Equal(t, []string{"A", "B"}, deleted)
	})

	t.Run("an apply error stops the run before any delete", func(t *testing.T) {
		boom := errors.New("boom")
		var deleted []string
		r := Reconciler[string, string]{
			Apply:  func(_ context.Context, local string) (string, error) { return "", boom },
			Delete: func(_ context.Context, key string) error { deleted = append(deleted, key); return nil },
		}
		err := r.Run(ctx, []string{"B"}, []string{"A"})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, deleted)
	})
}
