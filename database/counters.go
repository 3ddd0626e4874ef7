// File: database/counters.go
package database

import (
	"context"
	"fmt"
	"time"

	"phms/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextSequence returns the next integer id for the named entity sequence.
// Entity ids must be small integers because the reminder trigger ids are
// derived from them arithmetically.
func NextSequence(name string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll := MongoClient.Database(config.AppConfig.DatabaseName).Collection("counters")

	filter := bson.M{"_id": name}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int `bson:"seq"`
	}
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to allocate id for sequence %s: %w", name, err)
	}
	return doc.Seq, nil
}
