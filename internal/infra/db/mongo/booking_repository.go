package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "rentzy/internal/domain/booking"
	"rentzy/internal/domain/listings"
	domainrange "rentzy/internal/domain/shared/daterange"
)

type BookingRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "renter_id", Value: 1}}})
	return &BookingRepository{db: db, col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b.ID == 0 {
		seq, err := nextSequence(ctx, r.db, "booking")
		if err != nil {
			return err
		}
		b.ID = domainbooking.BookingID(seq)
	}
	doc := newBookingDocument(b)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID int64) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"renter_id": renterID})
}

func (r *BookingRepository) ListByListings(ctx context.Context, ids []listings.ListingID) ([]*domainbooking.Booking, error) {
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	return r.find(ctx, bson.M{"listing_id": bson.M{"$in": raw}})
}

// AnyOverlapping relies on the lexicographic ordering of YYYY-MM-DD
// strings matching their chronological ordering.
func (r *BookingRepository) AnyOverlapping(ctx context.Context, listingID listings.ListingID, dr domainrange.DateRange) (bool, error) {
	blocking := []string{
		string(domainbooking.StatusPending),
		string(domainbooking.StatusConfirmed),
		string(domainbooking.StatusActive),
	}
	filter := bson.M{
		"listing_id": int64(listingID),
		"status":     bson.M{"$in": blocking},
		"start_date": bson.M{"$lt": dr.EndString()},
		"end_date":   bson.M{"$gt": dr.StartString()},
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID          int64     `bson:"_id"`
	ListingID   int64     `bson:"listing_id"`
	RenterID    int64     `bson:"renter_id"`
	StartDate   string    `bson:"start_date"`
	EndDate     string    `bson:"end_date"`
	TotalAmount float64   `bson:"total_amount"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:          int64(b.ID),
		ListingID:   int64(b.ListingID),
		RenterID:    b.RenterID,
		StartDate:   b.Range.StartString(),
		EndDate:     b.Range.EndString(),
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.UTC(),
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	dr, err := domainrange.Parse(d.StartDate, d.EndDate)
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:          domainbooking.BookingID(d.ID),
		RenterID:    d.RenterID,
		ListingID:   listings.ListingID(d.ListingID),
		Range:       dr,
		TotalAmount: d.TotalAmount,
		Status:      domainbooking.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}
