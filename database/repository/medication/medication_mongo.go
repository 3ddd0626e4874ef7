package medicationRepo

import (
	"context"
	"fmt"
	"time"

	"phms/config"
	"phms/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMedicationRepo implements MedicationRepository using MongoDB.
type MongoMedicationRepo struct {
	coll *mongo.Collection
}

// NewMongoMedicationRepo creates a new instance of MedicationRepository using MongoDB.
func NewMongoMedicationRepo() MedicationRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("medications")
	repo := &MongoMedicationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoMedicationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
