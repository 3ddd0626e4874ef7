package appointmentRepo

import (
	"context"
	"errors"

	"phms/models"
)

// ErrNotFound reports an appointment that is confirmed absent from the
// store. Callers must treat it differently from transient I/O failures:
// a fired reminder aborts on ErrNotFound but falls back to payload data
// on anything else.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	Create(appt *models.Appointment) error
	Update(appt *models.Appointment) error
	Delete(id int) error

	// GetByID honors the caller's context deadline; the reminder handler
	// passes a budget much shorter than the repo's own default.
	GetByID(ctx context.Context, id int) (*models.Appointment, error)

	GetByUser(userID string) ([]models.Appointment, error)
	GetUpcomingWithReminders(userID string) ([]models.Appointment, error)
}
