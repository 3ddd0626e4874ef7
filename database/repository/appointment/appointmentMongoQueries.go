// File: database/repository/appointment/appointmentMongoQueries.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"phms/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetByID retrieves an appointment by its integer id. Confirmed absence is
// reported as ErrNotFound; any other failure is an I/O error.
func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id int) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("appointment with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch appointment with id %d: %w", id, err)
	}
	return &appt, nil
}

// GetByUser retrieves all appointments for a user, soonest first.
func (r *MongoAppointmentRepo) GetByUser(userID string) ([]models.Appointment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments for user %s: %w", userID, err)
	}
	return appts, nil
}

// GetUpcomingWithReminders returns reminder-enabled appointments whose date
// is today or later. Used by the restart recovery pass; time-of-day pruning
// is the planner's job.
func (r *MongoAppointmentRepo) GetUpcomingWithReminders(userID string) ([]models.Appointment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	today := time.Now().Format(models.AppointmentDateLayout)
	filter := bson.M{
		"userId":    userID,
		"reminders": true,
		"date":      bson.M{"$gte": today},
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming appointments for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode upcoming appointments for user %s: %w", userID, err)
	}
	return appts, nil
}
