// File: database/repository/medication/medicationMongoCrud.go
package medicationRepo

import (
	"context"
	"fmt"
	"time"

	"phms/database"
	"phms/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new medication document, assigning its integer id.
func (r *MongoMedicationRepo) Create(med *models.Medication) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if len(med.Times) > models.MaxDoseSlots {
		return fmt.Errorf("medication has %d dose times, maximum is %d", len(med.Times), models.MaxDoseSlots)
	}

	if med.ID == 0 {
		id, err := database.NextSequence("medications")
		if err != nil {
			return err
		}
		med.ID = id
	}

	now := time.Now()
	med.CreatedAt = now
	med.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, med)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}
	return nil
}

// Update modifies an existing medication document.
func (r *MongoMedicationRepo) Update(med *models.Medication) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if len(med.Times) > models.MaxDoseSlots {
		return fmt.Errorf("medication has %d dose times, maximum is %d", len(med.Times), models.MaxDoseSlots)
	}

	med.UpdatedAt = time.Now()
	filter := bson.M{"id": med.ID}
	update := bson.M{"$set": med}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update medication with id %d: %w", med.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("medication with id %d: %w", med.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a medication document by its ID.
func (r *MongoMedicationRepo) Delete(id int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete medication with id %d: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("medication with id %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a medication by its integer id. Confirmed absence is
// reported as ErrNotFound.
func (r *MongoMedicationRepo) GetByID(ctx context.Context, id int) (*models.Medication, error) {
	var med models.Medication
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&med); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("medication with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch medication with id %d: %w", id, err)
	}
	return &med, nil
}

// GetByUser retrieves all medications for a user.
func (r *MongoMedicationRepo) GetByUser(userID string) ([]models.Medication, error) {
	return r.findByFilter(bson.M{"userId": userID}, userID)
}

// GetWithReminders retrieves the user's reminder-enabled medications for
// the restart recovery pass.
func (r *MongoMedicationRepo) GetWithReminders(userID string) ([]models.Medication, error) {
	return r.findByFilter(bson.M{"userId": userID, "reminders": true}, userID)
}

func (r *MongoMedicationRepo) findByFilter(filter bson.M, userID string) ([]models.Medication, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var meds []models.Medication
	if err := cursor.All(ctx, &meds); err != nil {
		return nil, fmt.Errorf("failed to decode medications for user %s: %w", userID, err)
	}
	return meds, nil
}
