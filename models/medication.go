package models

import "time"

// MaxDoseSlots bounds how many dose times a medication may carry per day.
// Trigger-id cancellation enumerates slot indexes up to this bound, so it
// must never shrink once ids are in the wild.
const MaxDoseSlots = 4

type Medication struct {
	ID           int       `bson:"id" json:"id"`
	UserID       string    `bson:"userId" json:"userId"`
	Name         string    `bson:"name" json:"name"`
	Category     string    `bson:"category" json:"category"`
	Dosage       string    `bson:"dosage" json:"dosage"`
	Frequency    string    `bson:"frequency" json:"frequency"`
	Instructions string    `bson:"instructions" json:"instructions"`
	Times        []string  `bson:"times" json:"times"` // "15:04" per dose slot
	Weekdays     []int     `bson:"weekdays" json:"weekdays"` // 0=Sunday; empty means every day
	Reminders    bool      `bson:"reminders" json:"reminders"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ActiveOn reports whether the medication schedule includes the weekday.
func (m *Medication) ActiveOn(day time.Weekday) bool {
	if len(m.Weekdays) == 0 {
		return true
	}
	for _, d := range m.Weekdays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}
