package memory

import (
	"context"
	"sync"

	appuow "rentzy/internal/app/uow"
	domainbooking "rentzy/internal/domain/booking"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
	domainuser "rentzy/internal/domain/user"
)

// Store bundles the in-memory repositories behind a single lock so
// that units of work observe a serializable view: writers exclude each
// other and all readers for the span of the unit.
type Store struct {
	mu         sync.RWMutex
	Listings   *ListingRepository
	Bookings   *BookingRepository
	Users      *UserRepository
	Categories *CategoryRepository
}

func NewStore() *Store {
	return &Store{
		Listings:   NewListingRepository(),
		Bookings:   NewBookingRepository(),
		Users:      NewUserRepository(),
		Categories: NewCategoryRepository(),
	}
}

// Factory begins units of work over a shared Store.
type Factory struct {
	store *Store
}

func NewFactory(store *Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) Begin(ctx context.Context, opts appuow.TxOptions) (appuow.UnitOfWork, error) {
	if opts.ReadOnly {
		f.store.mu.RLock()
	} else {
		f.store.mu.Lock()
	}
	unit := &unitOfWork{store: f.store, readOnly: opts.ReadOnly}
	unit.release = func() {
		if opts.ReadOnly {
			f.store.mu.RUnlock()
		} else {
			f.store.mu.Unlock()
		}
	}
	return unit, nil
}

type unitOfWork struct {
	store    *Store
	readOnly bool
	once     sync.Once
	release  func()
}

func (u *unitOfWork) Bookings() domainbooking.Repository    { return u.store.Bookings }
func (u *unitOfWork) Listings() domainlistings.Repository   { return u.store.Listings }
func (u *unitOfWork) Users() domainuser.Repository          { return u.store.Users }
func (u *unitOfWork) Categories() domaincategory.Repository { return u.store.Categories }

func (u *unitOfWork) Commit(ctx context.Context) error {
	u.once.Do(u.release)
	return nil
}

// Rollback only drops the lock; in-memory writes are not undone, so
// handlers must save aggregates as the final step before Commit.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	u.once.Do(u.release)
	return nil
}
