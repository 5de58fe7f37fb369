package schedule

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAvailableExcludesBooked(t *testing.T) {
	booked := []BookedSlot{{Date: "2024-06-01", StartTime: "19:00"}}

	available := ComputeAvailable("2024-06-01", booked)
	require.Len(t, available, 7)
	for _, slot := range available {
		assert.NotEqual(t, "19:00", slot.StartTime)
	}
}

func TestComputeAvailableIgnoresOtherDates(t *testing.T) {
	booked := []BookedSlot{
		{Date: "2024-06-02", StartTime: "18:00"},
		{Date: "2024-06-03", StartTime: "19:30"},
	}

	available := ComputeAvailable("2024-06-01", booked)
	assert.Equal(t, Grid(), available)
}

func TestComputeAvailablePreservesGridOrder(t *testing.T) {
	booked := []BookedSlot{
		{Date: "2024-06-01", StartTime: "18:30"},
		{Date: "2024-06-01", StartTime: "21:00"},
	}

	available := ComputeAvailable("2024-06-01", booked)

	// Output must be a subsequence of the grid in grid order.
	grid := Grid()
	i := 0
	for _, slot := range available {
		for i < len(grid) && grid[i] != slot {
			i++
		}
		require.Less(t, i, len(grid), "slot %s out of grid order", slot.Label())
		i++
	}
}

func TestComputeAvailableIsPure(t *testing.T) {
	booked := []BookedSlot{{Date: "2024-06-01", StartTime: "20:00"}}

	first := ComputeAvailable("2024-06-01", booked)
	second := ComputeAvailable("2024-06-01", booked)
	assert.Equal(t, first, second)
}

func TestComputeAvailableFullyBooked(t *testing.T) {
	var booked []BookedSlot
	for _, slot := range Grid() {
		booked = append(booked, BookedSlot{Date: "2024-06-01", StartTime: slot.StartTime})
	}

	available := ComputeAvailable("2024-06-01", booked)
	assert.Empty(t, available)
}

func TestValidateSelection(t *testing.T) {
	available := ComputeAvailable("2024-06-01", []BookedSlot{{Date: "2024-06-01", StartTime: "19:00"}})

	slot, err := ValidateSelection("18:00-18:30", available)
	require.NoError(t, err)
	assert.Equal(t, "18:00", slot.StartTime)

	_, err = ValidateSelection("", available)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = ValidateSelection("18:00", available)
	assert.ErrorIs(t, err, ErrMalformedSlotLabel)

	_, err = ValidateSelection("19:00-19:30", available)
	assert.ErrorIs(t, err, ErrSlotUnavailable, "booked slot must be rejected before any network call")
}

func TestResolverLifecycle(t *testing.T) {
	r := NewResolver()
	r.SelectDate("2024-06-01")

	view := r.Availability()
	assert.Equal(t, StateNotLoaded, view.State)
	assert.False(t, view.NoSlots(), "not-loaded must not read as no-slots")

	applied := r.ApplyResult("2024-06-01", []BookedSlot{{Date: "2024-06-01", StartTime: "19:00"}}, nil)
	require.True(t, applied)

	view = r.Availability()
	assert.Equal(t, StateLoaded, view.State)
	assert.Len(t, view.Slots, 7)
}

func TestResolverDiscardsSupersededFetch(t *testing.T) {
	r := NewResolver()
	r.SelectDate("2024-06-01")
	r.SelectDate("2024-06-02")

	// A late result for the previous date must not touch the current view.
	applied := r.ApplyResult("2024-06-01", nil, nil)
	assert.False(t, applied)
	assert.Equal(t, "2024-06-02", r.Availability().Date)
	assert.Equal(t, StateNotLoaded, r.Availability().State)
}

func TestResolverFetchFailure(t *testing.T) {
	r := NewResolver()
	r.SelectDate("2024-06-01")

	applied := r.ApplyResult("2024-06-01", nil, errors.New("connection refused"))
	require.True(t, applied)

	view := r.Availability()
	assert.Equal(t, StateFailed, view.State)
	assert.Empty(t, view.Slots, "a failed fetch must never show partial results")
	assert.False(t, view.NoSlots(), "failed must not read as no-slots")

	_, err := r.ValidateSelection("18:00-18:30")
	assert.ErrorIs(t, err, ErrAvailabilityUnknown)
}

func TestResolverNoSlotsState(t *testing.T) {
	var booked []BookedSlot
	for _, slot := range Grid() {
		booked = append(booked, BookedSlot{Date: "2024-06-01", StartTime: slot.StartTime})
	}

	r := NewResolver()
	r.SelectDate("2024-06-01")
	r.ApplyResult("2024-06-01", booked, nil)

	view := r.Availability()
	assert.Equal(t, StateLoaded, view.State)
	assert.True(t, view.NoSlots())
}

func TestResolverValidateSelectionRequiresLoad(t *testing.T) {
	r := NewResolver()
	r.SelectDate("2024-06-01")

	_, err := r.ValidateSelection("18:00-18:30")
	assert.ErrorIs(t, err, ErrAvailabilityUnknown)
}

func TestResolverValidateAgainstCurrentView(t *testing.T) {
	r := NewResolver()
	r.SelectDate("2024-06-01")
	r.ApplyResult("2024-06-01", []BookedSlot{{Date: "2024-06-01", StartTime: "18:00"}}, nil)

	for i, slot := range Grid() {
		_, err := r.ValidateSelection(slot.Label())
		if i == 0 {
			assert.ErrorIs(t, err, ErrSlotUnavailable, fmt.Sprintf("slot %s", slot.Label()))
		} else {
			assert.NoError(t, err, fmt.Sprintf("slot %s", slot.Label()))
		}
	}
}
