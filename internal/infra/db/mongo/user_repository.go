package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "rentzy/internal/domain/user"
)

type UserRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	col := db.Collection("agg_user")
	for _, field := range []string{"email", "phone", "national_id", "tax_id"} {
		idx := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		_, _ = col.Indexes().CreateOne(context.Background(), idx)
	}
	return &UserRepository{db: db, col: col}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByLogin(ctx context.Context, login string) (*domainuser.User, error) {
	login = strings.TrimSpace(login)
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(login)},
		bson.M{"phone": domainuser.NormalizePhone(login)},
	}}
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if err := r.checkUnique(ctx, u); err != nil {
		return err
	}
	if u.ID == 0 {
		seq, err := nextSequence(ctx, r.db, "user")
		if err != nil {
			return err
		}
		u.ID = domainuser.ID(seq)
	}
	doc := newUserDocument(u)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainuser.ErrEmailTaken
	}
	return err
}

// checkUnique names the clashing field; the unique indexes remain the
// backstop under concurrent registration.
func (r *UserRepository) checkUnique(ctx context.Context, u *domainuser.User) error {
	checks := []struct {
		field string
		value string
		err   error
	}{
		{"email", u.Email, domainuser.ErrEmailTaken},
		{"phone", u.Phone, domainuser.ErrPhoneTaken},
		{"national_id", u.NationalID, domainuser.ErrNationalIDTaken},
		{"tax_id", u.TaxID, domainuser.ErrTaxIDTaken},
	}
	for _, check := range checks {
		filter := bson.M{check.field: check.value, "_id": bson.M{"$ne": int64(u.ID)}}
		count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if count > 0 {
			return check.err
		}
	}
	return nil
}

type userDocument struct {
	ID           int64     `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Phone        string    `bson:"phone"`
	NationalID   string    `bson:"national_id"`
	TaxID        string    `bson:"tax_id"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Verified     bool      `bson:"verified"`
	CreatedAt    time.Time `bson:"created_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:           int64(u.ID),
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		NationalID:   u.NationalID,
		TaxID:        u.TaxID,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Verified:     u.Verified,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		NationalID:   d.NationalID,
		TaxID:        d.TaxID,
		PasswordHash: d.PasswordHash,
		Role:         domainuser.Role(d.Role),
		Verified:     d.Verified,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
