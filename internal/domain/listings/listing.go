package listings

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("listings: listing not found")
	ErrUnavailable      = errors.New("listings: listing not available")
	ErrTitleRequired    = errors.New("listings: title is required")
	ErrDescRequired     = errors.New("listings: description is required")
	ErrLocationRequired = errors.New("listings: location is required")
	ErrInvalidPrice     = errors.New("listings: price per day must be positive")
	ErrOwnerRequired    = errors.New("listings: owner is required")
	ErrCategoryRequired = errors.New("listings: category is required")
)

type ListingID int64

type Listing struct {
	ID          ListingID
	OwnerID     int64
	CategoryID  int64
	Title       string
	Description string
	PricePerDay float64
	Location    string
	Available   bool
	CreatedAt   time.Time
}

type SearchParams struct {
	CategoryID int64
	TitleQuery string
	Page       int
	PerPage    int
}

type SearchResult struct {
	Items []*Listing
	Total int
}

// Normalized clamps pagination to sane defaults.
func (p SearchParams) Normalized() SearchParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	p.TitleQuery = strings.TrimSpace(p.TitleQuery)
	return p
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*Listing, error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	OwnerID     int64
	CategoryID  int64
	Title       string
	Description string
	PricePerDay float64
	Location    string
	Now         time.Time
}

// NewListing validates invariants and returns an available listing.
// The identifier is assigned by the repository on first save.
func NewListing(params CreateParams) (*Listing, error) {
	if params.OwnerID <= 0 {
		return nil, ErrOwnerRequired
	}
	if params.CategoryID <= 0 {
		return nil, ErrCategoryRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, ErrDescRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if params.PricePerDay <= 0 {
		return nil, ErrInvalidPrice
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Listing{
		OwnerID:     params.OwnerID,
		CategoryID:  params.CategoryID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		PricePerDay: params.PricePerDay,
		Location:    strings.TrimSpace(params.Location),
		Available:   true,
		CreatedAt:   now.UTC(),
	}, nil
}

// SetAvailability toggles whether new bookings are accepted.
func (l *Listing) SetAvailability(available bool) {
	l.Available = available
}
