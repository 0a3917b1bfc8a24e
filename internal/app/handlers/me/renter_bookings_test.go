package me_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meapp "rentzy/internal/app/handlers/me"
	domainbooking "rentzy/internal/domain/booking"
	domainlistings "rentzy/internal/domain/listings"
	"rentzy/internal/domain/shared/daterange"
	"rentzy/internal/infra/storage/memory"
)

func seedListing(t *testing.T, store *memory.Store, title string, price float64) *domainlistings.Listing {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		OwnerID:     1,
		CategoryID:  1,
		Title:       title,
		Description: "desc",
		PricePerDay: price,
		Location:    "Pune",
	})
	require.NoError(t, err)
	require.NoError(t, store.Listings.Save(context.Background(), l))
	return l
}

func seedBooking(t *testing.T, store *memory.Store, renterID int64, listing *domainlistings.Listing, fromDays, toDays int, createdAt time.Time) *domainbooking.Booking {
	t.Helper()
	now := time.Now().UTC()
	dr, err := daterange.New(now.AddDate(0, 0, fromDays), now.AddDate(0, 0, toDays))
	require.NoError(t, err)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		RenterID: renterID,
		Listing:  listing,
		Range:    dr,
		Now:      now,
	})
	require.NoError(t, err)
	bk.CreatedAt = createdAt
	require.NoError(t, store.Bookings.Save(context.Background(), bk))
	return bk
}

func TestListRenterBookings(t *testing.T) {
	store := memory.NewStore()
	handler := &meapp.ListRenterBookingsHandler{UoWFactory: memory.NewFactory(store)}
	ctx := context.Background()

	bike := seedListing(t, store, "City Bike", 500.0)
	car := seedListing(t, store, "Old Sedan", 1200.0)

	base := time.Now().UTC().Add(-time.Hour)
	older := seedBooking(t, store, 1, bike, 1, 4, base)
	newer := seedBooking(t, store, 1, car, 5, 7, base.Add(time.Minute))
	seedBooking(t, store, 2, bike, 10, 12, base) // someone else's

	collection, err := handler.Handle(ctx, meapp.ListRenterBookingsQuery{RenterID: 1})
	require.NoError(t, err)
	require.Len(t, collection.Items, 2)

	assert.Equal(t, int64(newer.ID), collection.Items[0].ID)
	assert.Equal(t, "Old Sedan", collection.Items[0].ListingTitle)
	assert.Equal(t, 2400.0, collection.Items[0].TotalAmount)

	assert.Equal(t, int64(older.ID), collection.Items[1].ID)
	assert.Equal(t, "City Bike", collection.Items[1].ListingTitle)
	assert.Equal(t, older.Range.StartString(), collection.Items[1].StartDate)
	assert.Equal(t, "pending", collection.Items[1].Status)
}

func TestListRenterBookingsEmpty(t *testing.T) {
	store := memory.NewStore()
	handler := &meapp.ListRenterBookingsHandler{UoWFactory: memory.NewFactory(store)}

	collection, err := handler.Handle(context.Background(), meapp.ListRenterBookingsQuery{RenterID: 42})
	require.NoError(t, err)
	assert.Empty(t, collection.Items)
}

func TestListRenterBookingsRequiresRenter(t *testing.T) {
	store := memory.NewStore()
	handler := &meapp.ListRenterBookingsHandler{UoWFactory: memory.NewFactory(store)}

	_, err := handler.Handle(context.Background(), meapp.ListRenterBookingsQuery{})
	assert.Error(t, err)
}
