package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainbooking "rentzy/internal/domain/booking"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
	domainrange "rentzy/internal/domain/shared/daterange"
)

// ListingRepository is an in-memory listings store.
type ListingRepository struct {
	mu     sync.RWMutex
	items  map[domainlistings.ListingID]*domainlistings.Listing
	nextID int64
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	copied := *listing
	return &copied, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.ID == 0 {
		r.nextID++
		listing.ID = domainlistings.ListingID(r.nextID)
	}
	copied := *listing
	r.items[listing.ID] = &copied
	return nil
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainlistings.Listing, 0)
	for _, listing := range r.items {
		if listing.OwnerID == ownerID {
			copied := *listing
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// Search returns available listings matching the filters, paginated.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	needle := strings.ToLower(opts.TitleQuery)
	matches := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if !listing.Available {
			continue
		}
		if opts.CategoryID > 0 && listing.CategoryID != opts.CategoryID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(listing.Title), needle) {
			continue
		}
		copied := *listing
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := len(matches)
	start := (opts.Page - 1) * opts.PerPage
	if start > total {
		start = total
	}
	end := start + opts.PerPage
	if end > total {
		end = total
	}
	return domainlistings.SearchResult{Items: matches[start:end], Total: total}, nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu     sync.RWMutex
	items  map[domainbooking.BookingID]*domainbooking.Booking
	nextID int64
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	copied := *bk
	return &copied, nil
}

func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bk.ID == 0 {
		r.nextID++
		bk.ID = domainbooking.BookingID(r.nextID)
	}
	copied := *bk
	copied.ClearEvents()
	r.items[bk.ID] = &copied
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID int64) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if bk.RenterID == renterID {
			copied := *bk
			matches = append(matches, &copied)
		}
	}
	sortNewestFirst(matches)
	return matches, nil
}

func (r *BookingRepository) ListByListings(ctx context.Context, ids []domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := make(map[domainlistings.ListingID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if _, ok := wanted[bk.ListingID]; ok {
			copied := *bk
			matches = append(matches, &copied)
		}
	}
	sortNewestFirst(matches)
	return matches, nil
}

func (r *BookingRepository) AnyOverlapping(ctx context.Context, listingID domainlistings.ListingID, dr domainrange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bk := range r.items {
		if bk.ListingID != listingID || !bk.Status.Blocks() {
			continue
		}
		if bk.Range.Overlaps(dr) {
			return true, nil
		}
	}
	return false, nil
}

func sortNewestFirst(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// CategoryRepository keeps the category catalog in memory.
type CategoryRepository struct {
	mu     sync.RWMutex
	items  map[domaincategory.CategoryID]*domaincategory.Category
	nextID int64
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{items: make(map[domaincategory.CategoryID]*domaincategory.Category)}
}

func (r *CategoryRepository) ByID(ctx context.Context, id domaincategory.CategoryID) (*domaincategory.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.items[id]
	if !ok {
		return nil, domaincategory.ErrNotFound
	}
	copied := *cat
	return &copied, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domaincategory.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincategory.Category, 0, len(r.items))
	for _, cat := range r.items {
		copied := *cat
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CategoryRepository) Save(ctx context.Context, cat *domaincategory.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cat.ID == 0 {
		r.nextID++
		cat.ID = domaincategory.CategoryID(r.nextID)
	}
	copied := *cat
	r.items[cat.ID] = &copied
	return nil
}
