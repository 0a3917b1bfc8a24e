package booking

import (
	"context"
	"errors"
	"time"

	"rentzy/internal/domain/listings"
	"rentzy/internal/domain/shared/daterange"
	"rentzy/internal/domain/shared/events"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrRenterRequired    = errors.New("booking: renter is required")
	ErrListingRequired   = errors.New("booking: listing is required")
	ErrStartInPast       = errors.New("booking: start date cannot be in the past")
	ErrInvalidTransition = errors.New("booking: invalid status transition")
	ErrDatesConflict     = errors.New("booking: dates conflict with an existing booking")
)

type BookingID int64

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Blocks reports whether a booking in this status holds its dates
// against new reservations on the same listing.
func (s Status) Blocks() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive:
		return true
	default:
		return false
	}
}

type Booking struct {
	ID          BookingID
	RenterID    int64
	ListingID   listings.ListingID
	Range       daterange.DateRange
	TotalAmount float64
	Status      Status
	CreatedAt   time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// Save persists the booking, assigning the id on first save.
	Save(ctx context.Context, b *Booking) error
	ListByRenter(ctx context.Context, renterID int64) ([]*Booking, error)
	ListByListings(ctx context.Context, ids []listings.ListingID) ([]*Booking, error)
	// AnyOverlapping reports whether a date-holding booking on the
	// listing overlaps the half-open range.
	AnyOverlapping(ctx context.Context, listingID listings.ListingID, dr daterange.DateRange) (bool, error)
}

type CreateParams struct {
	RenterID int64
	Listing  *listings.Listing
	Range    daterange.DateRange
	Now      time.Time
}

// NewBooking builds a pending booking for the listing over the range.
// The total amount is fixed here and never recomputed, even if the
// listing price changes later.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.RenterID <= 0 {
		return nil, ErrRenterRequired
	}
	if params.Listing == nil {
		return nil, ErrListingRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	if params.Range.Start.Before(daterange.Truncate(now)) {
		return nil, ErrStartInPast
	}
	return &Booking{
		RenterID:    params.RenterID,
		ListingID:   params.Listing.ID,
		Range:       params.Range,
		TotalAmount: float64(params.Range.Days()) * params.Listing.PricePerDay,
		Status:      StatusPending,
		CreatedAt:   now.UTC(),
	}, nil
}

func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, At: now.UTC()})
	return nil
}

func (b *Booking) Activate(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	b.Status = StatusActive
	b.Record(BookingActivated{BookingID: b.ID, ListingID: b.ListingID, At: now.UTC()})
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusActive {
		return ErrInvalidTransition
	}
	b.Status = StatusCompleted
	b.Record(BookingCompleted{BookingID: b.ID, ListingID: b.ListingID, At: now.UTC()})
	return nil
}

// Cancel is reachable from any non-terminal status. The record is kept
// for audit history; cancellation never deletes.
func (b *Booking) Cancel(now time.Time) error {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusActive:
	default:
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.Record(BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, At: now.UTC()})
	return nil
}
