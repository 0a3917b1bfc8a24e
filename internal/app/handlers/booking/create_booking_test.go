package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingapp "rentzy/internal/app/handlers/booking"
	domainbooking "rentzy/internal/domain/booking"
	domainlistings "rentzy/internal/domain/listings"
	domainrange "rentzy/internal/domain/shared/daterange"
	domainuser "rentzy/internal/domain/user"
	"rentzy/internal/infra/storage/memory"
)

type fixture struct {
	store   *memory.Store
	outbox  *memory.Outbox
	handler *bookingapp.CreateBookingHandler
	renter  *domainuser.User
	owner   *domainuser.User
	listing *domainlistings.Listing
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	box := memory.NewOutbox()

	owner := seedUser(t, store, "owner@example.com", "+919876500001", "111122223333", "AAAAB1111C", domainuser.RoleOwner)
	renter := seedUser(t, store, "renter@example.com", "+919876500002", "444455556666", "DDDDE2222F", domainuser.RoleRenter)

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		OwnerID:     int64(owner.ID),
		CategoryID:  1,
		Title:       "City Bike",
		Description: "Good brakes",
		PricePerDay: 500.0,
		Location:    "Pune",
	})
	require.NoError(t, err)
	require.NoError(t, store.Listings.Save(ctx, listing))

	return &fixture{
		store:  store,
		outbox: box,
		handler: &bookingapp.CreateBookingHandler{
			UoWFactory: memory.NewFactory(store),
			Outbox:     box,
		},
		renter:  renter,
		owner:   owner,
		listing: listing,
	}
}

func seedUser(t *testing.T, store *memory.Store, email, phone, nationalID, taxID string, role domainuser.Role) *domainuser.User {
	t.Helper()
	u, err := domainuser.NewUser(domainuser.CreateParams{
		Name:         "Test " + email,
		Email:        email,
		Phone:        phone,
		NationalID:   nationalID,
		TaxID:        taxID,
		PasswordHash: "$2a$10$hash",
		Role:         role,
	})
	require.NoError(t, err)
	require.NoError(t, store.Users.Save(context.Background(), u))
	return u
}

func dateFromNow(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(domainrange.Layout)
}

func (f *fixture) command(fromDays, toDays int) bookingapp.CreateBookingCommand {
	return bookingapp.CreateBookingCommand{
		RenterID:  int64(f.renter.ID),
		ListingID: int64(f.listing.ID),
		StartDate: dateFromNow(fromDays),
		EndDate:   dateFromNow(toDays),
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	view, err := f.handler.Handle(context.Background(), f.command(7, 10))
	require.NoError(t, err)

	assert.NotZero(t, view.ID)
	assert.Equal(t, int64(f.listing.ID), view.ListingID)
	assert.Equal(t, "City Bike", view.ListingTitle)
	assert.Equal(t, 1500.0, view.TotalAmount)
	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, dateFromNow(7), view.StartDate)
	assert.Equal(t, dateFromNow(10), view.EndDate)

	stored, err := f.store.Bookings.ByID(context.Background(), domainbooking.BookingID(view.ID))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, stored.Status)

	records := f.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.requested", records[0].Name)
}

func TestCreateBookingListingMissing(t *testing.T) {
	f := newFixture(t)
	cmd := f.command(7, 10)
	cmd.ListingID = 9999

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainlistings.ErrNotFound)
}

func TestCreateBookingListingUnavailable(t *testing.T) {
	f := newFixture(t)
	f.listing.SetAvailability(false)
	require.NoError(t, f.store.Listings.Save(context.Background(), f.listing))

	_, err := f.handler.Handle(context.Background(), f.command(7, 10))
	assert.ErrorIs(t, err, domainlistings.ErrUnavailable)
}

func TestCreateBookingMalformedDates(t *testing.T) {
	f := newFixture(t)
	cmd := f.command(7, 10)
	cmd.StartDate = "01-06-2030"

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainrange.ErrMalformedDate)
}

func TestCreateBookingEndNotAfterStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), f.command(10, 7))
	assert.ErrorIs(t, err, domainrange.ErrEndNotAfter)

	_, err = f.handler.Handle(context.Background(), f.command(7, 7))
	assert.ErrorIs(t, err, domainrange.ErrEndNotAfter)
}

func TestCreateBookingStartInPast(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), f.command(-2, 3))
	assert.ErrorIs(t, err, domainbooking.ErrStartInPast)
}

func TestCreateBookingUnknownRenter(t *testing.T) {
	f := newFixture(t)
	cmd := f.command(7, 10)
	cmd.RenterID = 9999

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestCreateBookingDatesConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, f.command(7, 10))
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, f.command(9, 12))
	assert.ErrorIs(t, err, domainbooking.ErrDatesConflict)

	// half-open ranges: checkout day is free for the next renter
	_, err = f.handler.Handle(ctx, f.command(10, 12))
	assert.NoError(t, err)
}

func TestCreateBookingCancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.handler.Handle(ctx, f.command(7, 10))
	require.NoError(t, err)

	bk, err := f.store.Bookings.ByID(ctx, domainbooking.BookingID(view.ID))
	require.NoError(t, err)
	require.NoError(t, bk.Cancel(time.Now()))
	require.NoError(t, f.store.Bookings.Save(ctx, bk))

	_, err = f.handler.Handle(ctx, f.command(7, 10))
	assert.NoError(t, err)
}

func TestCreateBookingNothingPersistedOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, f.command(-5, -2))
	require.Error(t, err)

	bookings, err := f.store.Bookings.ListByRenter(ctx, int64(f.renter.ID))
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.Empty(t, f.outbox.Pending())
}
