package uow

import (
	"context"

	domainbooking "rentzy/internal/domain/booking"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
	domainuser "rentzy/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
// The listing read, overlap check and booking insert of a reservation
// commit as one step through it.
type UnitOfWork interface {
	Bookings() domainbooking.Repository
	Listings() domainlistings.Repository
	Users() domainuser.Repository
	Categories() domaincategory.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
