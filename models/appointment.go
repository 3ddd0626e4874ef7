package models

import "time"

const (
	AppointmentDateLayout = "2006-01-02"
	AppointmentTimeLayout = "15:04"
)

type Appointment struct {
	ID         int       `bson:"id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	DoctorID   int       `bson:"doctorId" json:"doctorId"`
	DoctorName string    `bson:"doctorName" json:"doctorName,omitempty"`
	Date       string    `bson:"date" json:"date"` // "2006-01-02"
	Time       string    `bson:"time" json:"time"` // "15:04"
	Duration   int       `bson:"duration" json:"duration"` // minutes
	Reason     string    `bson:"reason" json:"reason"`
	Notes      string    `bson:"notes" json:"notes,omitempty"`
	Status     string    `bson:"status" json:"status"`
	Reminders  bool      `bson:"reminders" json:"reminders"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StartsAt resolves the appointment's date and time in the given location.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(
		AppointmentDateLayout+" "+AppointmentTimeLayout,
		a.Date+" "+a.Time,
		loc,
	)
}
