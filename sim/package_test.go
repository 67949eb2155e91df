package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocator_FirstAllocation_IsOne(t *testing.T) {
	a := NewIDAllocator()
	assert.Equal(t, ElementID(1), a.Allocate())
	assert.Equal(t, ElementID(2), a.Allocate())
}

func TestIDAllocator_ReleaseThenAllocate_ReusesReleasedID(t *testing.T) {
	// GIVEN ids 1..5 allocated
	a := NewIDAllocator()
	for i := 0; i < 5; i++ {
		a.Allocate()
	}

	// WHEN id 3 is released and a new id allocated
	require.NoError(t, a.Release(3))
	got := a.Allocate()

	// THEN the released id comes back
	assert.Equal(t, ElementID(3), got)
	assert.Equal(t, []ElementID{1, 2, 3, 4, 5}, a.Active())
	assert.Empty(t, a.Available())
}

func TestIDAllocator_ReuseLowestFirst(t *testing.T) {
	// GIVEN ids 1..6 with 5, 2 and 4 released in that order
	a := NewIDAllocator()
	for i := 0; i < 6; i++ {
		a.Allocate()
	}
	for _, id := range []ElementID{5, 2, 4} {
		require.NoError(t, a.Release(id))
	}

	// WHEN four ids are allocated
	got := []ElementID{a.Allocate(), a.Allocate(), a.Allocate(), a.Allocate()}

	// THEN released ids come back lowest first, then max(active)+1
	assert.Equal(t, []ElementID{2, 4, 5, 7}, got)
}

func TestIDAllocator_ReleaseMax_NextFreshIDFollowsNewMax(t *testing.T) {
	// GIVEN ids 1..3, with 3 released and then reused
	a := NewIDAllocator()
	a.Allocate()
	a.Allocate()
	a.Allocate()
	require.NoError(t, a.Release(3))
	require.Equal(t, ElementID(3), a.Allocate())

	// WHEN another id is allocated
	// THEN it is max(active)+1
	assert.Equal(t, ElementID(4), a.Allocate())
}

func TestIDAllocator_AllReleased_AllocatesFromReusable(t *testing.T) {
	a := NewIDAllocator()
	a.Allocate()
	a.Allocate()
	require.NoError(t, a.Release(2))
	require.NoError(t, a.Release(1))

	assert.Empty(t, a.Active())
	assert.Equal(t, ElementID(1), a.Allocate())
	assert.Equal(t, ElementID(2), a.Allocate())
	assert.Equal(t, ElementID(3), a.Allocate())
}

func TestIDAllocator_ReleaseInactive_ReturnsIdentityError(t *testing.T) {
	// GIVEN an allocator holding id 1
	a := NewIDAllocator()
	a.Allocate()

	// WHEN an id that is not active is released
	err := a.Release(7)

	// THEN an IdentityError is returned and state is unchanged
	var idErr *IdentityError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, ElementID(7), idErr.ID)
	assert.Equal(t, []ElementID{1}, a.Active())
	assert.Empty(t, a.Available())

	// Double release is the same mistake
	require.NoError(t, a.Release(1))
	assert.Error(t, a.Release(1))
}

func TestIDAllocator_Register(t *testing.T) {
	t.Run("fresh id extends max", func(t *testing.T) {
		a := NewIDAllocator()
		require.NoError(t, a.Register(10))
		assert.True(t, a.IsActive(10))
		assert.Equal(t, ElementID(11), a.Allocate())
	})
	t.Run("duplicate active id rejected", func(t *testing.T) {
		a := NewIDAllocator()
		a.Allocate()
		var idErr *IdentityError
		assert.True(t, errors.As(a.Register(1), &idErr))
	})
	t.Run("non-positive id rejected", func(t *testing.T) {
		a := NewIDAllocator()
		assert.Error(t, a.Register(0))
		assert.Error(t, a.Register(-3))
	})
	t.Run("released id taken out of reusable set", func(t *testing.T) {
		a := NewIDAllocator()
		a.Allocate()
		a.Allocate()
		require.NoError(t, a.Release(1))
		require.NoError(t, a.Register(1))
		assert.Empty(t, a.Available())
		assert.Equal(t, ElementID(3), a.Allocate())
	})
}

func TestIDAllocator_Reset_ForgetsEverything(t *testing.T) {
	a := NewIDAllocator()
	a.Allocate()
	a.Allocate()
	require.NoError(t, a.Release(1))

	a.Reset()

	assert.Empty(t, a.Active())
	assert.Empty(t, a.Available())
	assert.Equal(t, ElementID(1), a.Allocate())
}

func TestIDAllocator_RandomOperations_NoDuplicateLiveIDs(t *testing.T) {
	// GIVEN a random interleaving of allocations and releases
	rng := rand.New(rand.NewSource(7))
	a := NewIDAllocator()
	live := make(map[ElementID]bool)

	for step := 0; step < 2000; step++ {
		if len(live) == 0 || rng.Float64() < 0.6 {
			// THEN the next id is the smallest released id, or max(active)+1
			want := ElementID(1)
			if avail := a.Available(); len(avail) > 0 {
				want = avail[0]
			} else if act := a.Active(); len(act) > 0 {
				want = act[len(act)-1] + 1
			}
			id := a.Allocate()
			require.Equal(t, want, id, "step %d", step)
			require.False(t, live[id], "step %d: id %d handed out twice", step, id)
			live[id] = true
			continue
		}
		active := a.Active()
		victim := active[rng.Intn(len(active))]
		require.NoError(t, a.Release(victim))
		delete(live, victim)
	}
	assert.Len(t, a.Active(), len(live))
}

func TestPackage_String(t *testing.T) {
	assert.Equal(t, "#12", NewPackage(12).String())
}
