package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "rentzy/internal/domain/booking"
	"rentzy/internal/domain/listings"
	"rentzy/internal/domain/shared/daterange"
)

func testListing() *listings.Listing {
	return &listings.Listing{
		ID:          7,
		OwnerID:     2,
		CategoryID:  1,
		Title:       "Mountain Bike",
		PricePerDay: 500.0,
		Available:   true,
	}
}

func futureRange(t *testing.T, fromDays, toDays int) daterange.DateRange {
	t.Helper()
	now := time.Now().UTC()
	dr, err := daterange.New(now.AddDate(0, 0, fromDays), now.AddDate(0, 0, toDays))
	require.NoError(t, err)
	return dr
}

func TestNewBooking(t *testing.T) {
	dr := futureRange(t, 7, 10)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RenterID: 1,
		Listing:  testListing(),
		Range:    dr,
		Now:      time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, domainbooking.StatusPending, bk.Status)
	assert.Equal(t, 1500.0, bk.TotalAmount)
	assert.Equal(t, listings.ListingID(7), bk.ListingID)
	assert.Empty(t, bk.PendingEvents())
}

func TestNewBookingRejectsPastStart(t *testing.T) {
	now := time.Now().UTC()
	dr, err := daterange.New(now.AddDate(0, 0, -1), now.AddDate(0, 0, 2))
	require.NoError(t, err)

	_, err = domainbooking.NewBooking(domainbooking.CreateParams{
		RenterID: 1,
		Listing:  testListing(),
		Range:    dr,
		Now:      now,
	})
	assert.ErrorIs(t, err, domainbooking.ErrStartInPast)
}

func TestNewBookingStartingTodayIsAllowed(t *testing.T) {
	now := time.Now().UTC()
	dr, err := daterange.New(now, now.AddDate(0, 0, 1))
	require.NoError(t, err)

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RenterID: 1,
		Listing:  testListing(),
		Range:    dr,
		Now:      now,
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, bk.TotalAmount)
}

func TestNewBookingRequiresRenterAndListing(t *testing.T) {
	dr := futureRange(t, 7, 10)

	_, err := domainbooking.NewBooking(domainbooking.CreateParams{Listing: testListing(), Range: dr})
	assert.ErrorIs(t, err, domainbooking.ErrRenterRequired)

	_, err = domainbooking.NewBooking(domainbooking.CreateParams{RenterID: 1, Range: dr})
	assert.ErrorIs(t, err, domainbooking.ErrListingRequired)
}

func TestLifecycleHappyPath(t *testing.T) {
	bk := pendingBooking(t)
	now := time.Now()

	require.NoError(t, bk.Confirm(now))
	assert.Equal(t, domainbooking.StatusConfirmed, bk.Status)

	require.NoError(t, bk.Activate(now))
	assert.Equal(t, domainbooking.StatusActive, bk.Status)

	require.NoError(t, bk.Complete(now))
	assert.Equal(t, domainbooking.StatusCompleted, bk.Status)

	assert.Len(t, bk.PendingEvents(), 3)
}

func TestInvalidTransitions(t *testing.T) {
	now := time.Now()

	t.Run("skip ahead", func(t *testing.T) {
		bk := pendingBooking(t)
		assert.ErrorIs(t, bk.Activate(now), domainbooking.ErrInvalidTransition)
		assert.ErrorIs(t, bk.Complete(now), domainbooking.ErrInvalidTransition)
		assert.Equal(t, domainbooking.StatusPending, bk.Status)
	})

	t.Run("repeat confirm", func(t *testing.T) {
		bk := pendingBooking(t)
		require.NoError(t, bk.Confirm(now))
		assert.ErrorIs(t, bk.Confirm(now), domainbooking.ErrInvalidTransition)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		bk := pendingBooking(t)
		require.NoError(t, bk.Confirm(now))
		require.NoError(t, bk.Activate(now))
		require.NoError(t, bk.Complete(now))
		assert.ErrorIs(t, bk.Cancel(now), domainbooking.ErrInvalidTransition)
		assert.ErrorIs(t, bk.Confirm(now), domainbooking.ErrInvalidTransition)
	})
}

func TestCancelFromAnyNonTerminalStatus(t *testing.T) {
	now := time.Now()

	t.Run("pending", func(t *testing.T) {
		bk := pendingBooking(t)
		require.NoError(t, bk.Cancel(now))
		assert.Equal(t, domainbooking.StatusCancelled, bk.Status)
	})

	t.Run("confirmed", func(t *testing.T) {
		bk := pendingBooking(t)
		require.NoError(t, bk.Confirm(now))
		require.NoError(t, bk.Cancel(now))
		assert.Equal(t, domainbooking.StatusCancelled, bk.Status)
	})

	t.Run("active", func(t *testing.T) {
		bk := pendingBooking(t)
		require.NoError(t, bk.Confirm(now))
		require.NoError(t, bk.Activate(now))
		require.NoError(t, bk.Cancel(now))
		assert.Equal(t, domainbooking.StatusCancelled, bk.Status)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		bk := pendingBooking(t)
		require.NoError(t, bk.Cancel(now))
		assert.ErrorIs(t, bk.Cancel(now), domainbooking.ErrInvalidTransition)
		assert.ErrorIs(t, bk.Confirm(now), domainbooking.ErrInvalidTransition)
	})
}

func TestStatusBlocks(t *testing.T) {
	assert.True(t, domainbooking.StatusPending.Blocks())
	assert.True(t, domainbooking.StatusConfirmed.Blocks())
	assert.True(t, domainbooking.StatusActive.Blocks())
	assert.False(t, domainbooking.StatusCompleted.Blocks())
	assert.False(t, domainbooking.StatusCancelled.Blocks())
}

func pendingBooking(t *testing.T) *domainbooking.Booking {
	t.Helper()
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RenterID: 1,
		Listing:  testListing(),
		Range:    futureRange(t, 7, 10),
		Now:      time.Now(),
	})
	require.NoError(t, err)
	return bk
}
