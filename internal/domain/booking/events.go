package booking

import (
	"strconv"
	"time"

	"rentzy/internal/domain/listings"
	"rentzy/internal/domain/shared/daterange"
)

type BookingRequested struct {
	BookingID   BookingID
	ListingID   listings.ListingID
	RenterID    int64
	Range       daterange.DateRange
	TotalAmount float64
	At          time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return formatID(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	ListingID listings.ListingID
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return formatID(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingActivated struct {
	BookingID BookingID
	ListingID listings.ListingID
	At        time.Time
}

func (e BookingActivated) EventName() string     { return "booking.activated" }
func (e BookingActivated) AggregateID() string   { return formatID(e.BookingID) }
func (e BookingActivated) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID BookingID
	ListingID listings.ListingID
	At        time.Time
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return formatID(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	ListingID listings.ListingID
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return formatID(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

func formatID(id BookingID) string {
	return strconv.FormatInt(int64(id), 10)
}
