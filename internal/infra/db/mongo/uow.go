package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentzy/internal/app/uow"
	domainbooking "rentzy/internal/domain/booking"
	domaincategory "rentzy/internal/domain/category"
	domainlistings "rentzy/internal/domain/listings"
	domainuser "rentzy/internal/domain/user"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	BookingRepo  domainbooking.Repository
	ListingRepo  domainlistings.Repository
	UserRepo     domainuser.Repository
	CategoryRepo domaincategory.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:         f.DB,
		session:    session,
		bookings:   f.BookingRepo,
		listings:   f.ListingRepo,
		users:      f.UserRepo,
		categories: f.CategoryRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	bookings   domainbooking.Repository
	listings   domainlistings.Repository
	users      domainuser.Repository
	categories domaincategory.Repository
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Categories() domaincategory.Repository {
	return u.categories
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session visible to downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
