package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextSequence returns a monotonically increasing integer for the
// named counter, backed by the app_counters collection.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	col := db.Collection("app_counters")
	update := bson.M{"$inc": bson.M{"value": int64(1)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Value int64 `bson:"value"`
	}
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": name}, update, opts).Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Value, nil
}
