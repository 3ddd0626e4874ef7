// File: services/reminder/ids.go
package reminder

import "phms/models"

// Trigger ids partition the integer space by entity kind and trigger kind:
//
//	1000 + apptID        one-day-before appointment reminder
//	2000 + apptID        one-hour-before appointment reminder
//	3000 + medID*10 + s  medication dose slot s (0 <= s < MaxDoseSlots)
//
// The same (entity, kind) always maps to the same id, which is what makes
// re-registration overwrite instead of duplicate and lets cancellation
// address triggers without a persisted table. Slots use a stride of 10, so
// the partitions stay collision-free while appointment ids are below 1000
// per kind. All derivation lives here; no call site does this arithmetic
// itself.
const (
	apptDayBeforeBase  = 1000
	apptHourBeforeBase = 2000
	medSlotBase        = 3000
	medSlotStride      = 10
)

// AppointmentTriggerID derives the trigger id for one appointment reminder kind.
func AppointmentTriggerID(apptID int, kind models.AppointmentTriggerKind) int {
	if kind == models.OneHourBefore {
		return apptHourBeforeBase + apptID
	}
	return apptDayBeforeBase + apptID
}

// MedicationTriggerID derives the trigger id for one dose slot.
func MedicationTriggerID(medID, slotIndex int) int {
	return medSlotBase + medID*medSlotStride + slotIndex
}

// AppointmentTriggerIDs enumerates every trigger id an appointment can own.
// Used for cancellation, which must work even after the entity itself has
// been deleted from the store.
func AppointmentTriggerIDs(apptID int) []int {
	return []int{
		AppointmentTriggerID(apptID, models.OneDayBefore),
		AppointmentTriggerID(apptID, models.OneHourBefore),
	}
}

// MedicationTriggerIDs enumerates every trigger id a medication can own,
// covering all possible dose slots regardless of how many are configured.
func MedicationTriggerIDs(medID int) []int {
	ids := make([]int, 0, models.MaxDoseSlots)
	for slot := 0; slot < models.MaxDoseSlots; slot++ {
		ids = append(ids, MedicationTriggerID(medID, slot))
	}
	return ids
}
