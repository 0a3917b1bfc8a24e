package dto

// RenterStats mirrors the renter dashboard card fields.
type RenterStats struct {
	ActiveBookings  int     `json:"active_bookings"`
	PendingRequests int     `json:"pending_requests"`
	TotalSpent      float64 `json:"total_spent"`
	UserRating      float64 `json:"user_rating"`
}

// OwnerStats mirrors the owner dashboard card fields.
type OwnerStats struct {
	ActiveListings int     `json:"active_listings"`
	TotalBookings  int     `json:"total_bookings"`
	TotalEarnings  float64 `json:"total_earnings"`
	UserRating     float64 `json:"user_rating"`
}

// StatsSnapshot carries exactly one populated branch, matching the
// requested role.
type StatsSnapshot struct {
	Renter *RenterStats `json:"renter,omitempty"`
	Owner  *OwnerStats  `json:"owner,omitempty"`
}
