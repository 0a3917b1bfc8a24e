package me

import (
	"context"
	"errors"
	"log/slog"

	"rentzy/internal/app/dto"
	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/queries"
	"rentzy/internal/app/uow"
	domainlistings "rentzy/internal/domain/listings"
)

const listRenterBookingsKey = "me.bookings.list"

type ListRenterBookingsQuery struct {
	RenterID int64
}

func (q ListRenterBookingsQuery) Key() string { return listRenterBookingsKey }

type ListRenterBookingsHandler struct {
	UoWFactory uow.Factory
	Logger     *slog.Logger
}

// Handle returns every booking of the renter, all statuses included.
func (h *ListRenterBookingsHandler) Handle(ctx context.Context, q ListRenterBookingsQuery) (dto.BookingCollection, error) {
	if q.RenterID <= 0 {
		return dto.BookingCollection{}, errors.New("me: renter id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByRenter(execCtx, q.RenterID)
	if err != nil {
		return dto.BookingCollection{}, err
	}

	listingCache := make(map[domainlistings.ListingID]*domainlistings.Listing)
	items := make([]dto.BookingView, 0, len(bookings))
	for _, bk := range bookings {
		listing, ok := listingCache[bk.ListingID]
		if !ok {
			listing, err = unit.Listings().ByID(execCtx, bk.ListingID)
			if err != nil {
				if h.Logger != nil {
					h.Logger.Warn("listing missing for booking", "booking_id", bk.ID, "listing_id", bk.ListingID, "error", err)
				}
				listing = nil
			}
			listingCache[bk.ListingID] = listing
		}
		items = append(items, dto.MapBooking(bk, listing))
	}
	return dto.BookingCollection{Items: items}, nil
}

var _ queries.Handler[ListRenterBookingsQuery, dto.BookingCollection] = (*ListRenterBookingsHandler)(nil)
