package dto

import (
	"time"

	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
)

type ListingView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PricePerDay float64   `json:"price_per_day"`
	Location    string    `json:"location"`
	Category    string    `json:"category,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

type ListingCatalog struct {
	Listings   []ListingView `json:"listings"`
	Pagination Pagination    `json:"pagination"`
}

type CategoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type CategoryCollection struct {
	Categories []CategoryView `json:"categories"`
}

func MapListing(l *domainlistings.Listing, categoryName, ownerName string) ListingView {
	return ListingView{
		ID:          int64(l.ID),
		Title:       l.Title,
		Description: l.Description,
		PricePerDay: l.PricePerDay,
		Location:    l.Location,
		Category:    categoryName,
		Owner:       ownerName,
		Available:   l.Available,
		CreatedAt:   l.CreatedAt,
	}
}

func MapCategory(c *domaincategory.Category) CategoryView {
	return CategoryView{
		ID:          int64(c.ID),
		Name:        c.Name,
		Icon:        c.Icon,
		Description: c.Description,
	}
}
