package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "rentzy/internal/domain/listings"
)

type ListingRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	col := db.Collection("agg_listing")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "available", Value: 1}}})
	return &ListingRepository{db: db, col: col}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainlistings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing.ID == 0 {
		seq, err := nextSequence(ctx, r.db, "listing")
		if err != nil {
			return err
		}
		listing.ID = domainlistings.ListingID(seq)
	}
	doc := newListingDocument(listing)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domainlistings.Listing, error) {
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeListings(ctx, cursor)
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{"available": true}
	if opts.CategoryID > 0 {
		filter["category_id"] = opts.CategoryID
	}
	if opts.TitleQuery != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(opts.TitleQuery), Options: "i"}
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((opts.Page - 1) * opts.PerPage)).
		SetLimit(int64(opts.PerPage))
	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	defer cursor.Close(ctx)
	items, err := decodeListings(ctx, cursor)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	return domainlistings.SearchResult{Items: items, Total: int(total)}, nil
}

func decodeListings(ctx context.Context, cursor *mongo.Cursor) ([]*domainlistings.Listing, error) {
	var out []*domainlistings.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type listingDocument struct {
	ID          int64     `bson:"_id"`
	OwnerID     int64     `bson:"owner_id"`
	CategoryID  int64     `bson:"category_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	PricePerDay float64   `bson:"price_per_day"`
	Location    string    `bson:"location"`
	Available   bool      `bson:"available"`
	CreatedAt   time.Time `bson:"created_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:          int64(l.ID),
		OwnerID:     l.OwnerID,
		CategoryID:  l.CategoryID,
		Title:       l.Title,
		Description: l.Description,
		PricePerDay: l.PricePerDay,
		Location:    l.Location,
		Available:   l.Available,
		CreatedAt:   l.CreatedAt.UTC(),
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:          domainlistings.ListingID(d.ID),
		OwnerID:     d.OwnerID,
		CategoryID:  d.CategoryID,
		Title:       d.Title,
		Description: d.Description,
		PricePerDay: d.PricePerDay,
		Location:    d.Location,
		Available:   d.Available,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}
