package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincategory "rentzy/internal/domain/category"
)

type CategoryRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{db: db, col: db.Collection("agg_category")}
}

func (r *CategoryRepository) ByID(ctx context.Context, id domaincategory.CategoryID) (*domaincategory.Category, error) {
	var doc categoryDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domaincategory.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domaincategory.Category, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domaincategory.Category
	for cursor.Next(ctx) {
		var doc categoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *CategoryRepository) Save(ctx context.Context, cat *domaincategory.Category) error {
	if cat.ID == 0 {
		seq, err := nextSequence(ctx, r.db, "category")
		if err != nil {
			return err
		}
		cat.ID = domaincategory.CategoryID(seq)
	}
	doc := categoryDocument{
		ID:          int64(cat.ID),
		Name:        cat.Name,
		Icon:        cat.Icon,
		Description: cat.Description,
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type categoryDocument struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Icon        string `bson:"icon"`
	Description string `bson:"description"`
}

func (d categoryDocument) toAggregate() *domaincategory.Category {
	return &domaincategory.Category{
		ID:          domaincategory.CategoryID(d.ID),
		Name:        d.Name,
		Icon:        d.Icon,
		Description: d.Description,
	}
}
