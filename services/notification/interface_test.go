package notification

import (
	"testing"

	"phms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultNotificationServiceRequiresRepo(t *testing.T) {
	_, err := NewDefaultNotificationService(nil)
	require.Error(t, err)
}

func TestBuildAlertMessageCollapsesByAlertID(t *testing.T) {
	alert := models.Alert{
		ID:       1042,
		UserID:   "user-1",
		Title:    "Appointment tomorrow",
		Body:     "Appointment with Dr. Patel at 09:00 on 2025-03-10",
		DeepLink: models.DeepLinkAppointments,
	}

	msg := buildAlertMessage("device-token", alert)

	assert.Equal(t, "device-token", msg.Token)
	assert.Equal(t, "Appointment tomorrow", msg.Notification.Title)
	assert.Equal(t, "OPEN_APPOINTMENTS", msg.Data["deepLink"])
	assert.Equal(t, "1042", msg.Data["alertId"])

	// Same deterministic id on redisplay means overwrite, not stack: the
	// id is both the Android tag and the APNS collapse id.
	assert.Equal(t, "1042", msg.Android.Notification.Tag)
	assert.Equal(t, "1042", msg.APNS.Headers["apns-collapse-id"])
	assert.Equal(t, "high", msg.Android.Priority)
}

func TestBuildAlertMessageMedicationDeepLink(t *testing.T) {
	alert := models.Alert{
		ID:       3070,
		UserID:   "user-1",
		Title:    "Medication Reminder",
		Body:     "Time to take 500mg of Metformin",
		DeepLink: models.DeepLinkMedications,
	}

	msg := buildAlertMessage("device-token", alert)

	assert.Equal(t, "OPEN_MEDICATIONS", msg.Data["deepLink"])
	assert.Equal(t, "3070", msg.Android.Notification.Tag)
}
