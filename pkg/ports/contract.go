package ports

import (
	"testing"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBranchStoreContract runs a suite of tests to verify that a BranchStore implementation
// adheres to the defined interface contract. newStore must return a store holding only
// branch 0 bound to the given initial state.
func RunBranchStoreContract(t *testing.T, newStore func(initial domain.StateHandle) BranchStore) {
	t.Run("Initial Branch", func(t *testing.T) {
		store := newStore("root")

		got, err := store.Get(domain.RootBranch)
		require.NoError(t, err)
		assert.Equal(t, "root", got)
		assert.Equal(t, domain.BranchID(1), store.NextID())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Insert Allocates Next ID", func(t *testing.T) {
		store := newStore("root")

		for i := 1; i <= 3; i++ {
			before := store.NextID()
			id := store.Insert(i)
			assert.Equal(t, before, id)
			assert.Equal(t, before+1, store.NextID())
		}
		assert.Equal(t, 4, store.Len())
	})

	t.Run("Existing Bindings Unchanged", func(t *testing.T) {
		store := newStore("root")
		a := store.Insert("a")
		_ = store.Insert("b")

		got, err := store.Get(a)
		require.NoError(t, err)
		assert.Equal(t, "a", got)

		root, err := store.Get(domain.RootBranch)
		require.NoError(t, err)
		assert.Equal(t, "root", root)
	})

	t.Run("Unknown Branch", func(t *testing.T) {
		store := newStore("root")
		store.Insert("a")

		_, err := store.Get(2)
		assert.ErrorIs(t, err, domain.ErrUnknownBranch)
		_, err = store.Get(^domain.BranchID(0))
		assert.ErrorIs(t, err, domain.ErrUnknownBranch)

		// Lookups never allocate.
		assert.Equal(t, 2, store.Len())
		assert.Equal(t, domain.BranchID(2), store.NextID())
	})
}
