package dto

import (
	"time"

	domainbooking "rentzy/internal/domain/booking"
	domainlistings "rentzy/internal/domain/listings"
)

type BookingView struct {
	ID           int64     `json:"id"`
	ListingID    int64     `json:"listing_id"`
	ListingTitle string    `json:"listing_title,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	TotalAmount  float64   `json:"total_amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingView `json:"bookings"`
}

func MapBooking(b *domainbooking.Booking, listing *domainlistings.Listing) BookingView {
	view := BookingView{
		ID:          int64(b.ID),
		ListingID:   int64(b.ListingID),
		StartDate:   b.Range.StartString(),
		EndDate:     b.Range.EndString(),
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
	if listing != nil {
		view.ListingTitle = listing.Title
	}
	return view
}
