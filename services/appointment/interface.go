package appointment

import (
	"context"

	appointmentRepo "phms/database/repository/appointment"
	"phms/models"
	"phms/services/reminder"
)

// AppointmentService owns appointment CRUD. Every mutation that touches a
// schedule-relevant field flows through the reminder service, which keeps
// trigger registrations consistent with the stored entity.
type AppointmentService interface {
	Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error)
	Update(ctx context.Context, appt *models.Appointment) (*models.Appointment, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Appointment, error)
	GetByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	SetReminders(ctx context.Context, id int, enabled bool) (*models.Appointment, error)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo      appointmentRepo.AppointmentRepository
	Reminders *reminder.Service
}
