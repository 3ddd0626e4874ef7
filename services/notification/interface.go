package notification

import (
	"context"
	"fmt"
	"strconv"

	userRepo "phms/database/repository/user"
	"phms/models"
	"phms/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService delivers user-visible alerts over FCM.
type NotificationService interface {
	ShowAlert(ctx context.Context, alert models.Alert) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

func NewDefaultNotificationService(users userRepo.UserRepository) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	return &DefaultNotificationService{Users: users}, nil
}

// ShowAlert looks up the user's FCM token and sends the push. The alert id
// becomes the notification tag and APNS collapse id, so sending twice with
// the same id overwrites the visible notification instead of stacking a
// duplicate.
func (s *DefaultNotificationService) ShowAlert(ctx context.Context, alert models.Alert) error {
	u, err := s.Users.GetByID(ctx, alert.UserID)
	if err != nil {
		return fmt.Errorf("ShowAlert: could not find user %s: %w", alert.UserID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("ShowAlert: user %s has no FCM token", alert.UserID)
	}

	if _, err := utils.FCMClient.Send(ctx, buildAlertMessage(u.FCMToken, alert)); err != nil {
		return fmt.Errorf("ShowAlert: failed to send FCM message: %w", err)
	}
	return nil
}

// buildAlertMessage maps an alert to the FCM message. The alert id becomes
// the Android notification tag and the APNS collapse id.
func buildAlertMessage(token string, alert models.Alert) *messaging.Message {
	tag := strconv.Itoa(alert.ID)

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: alert.Title,
			Body:  alert.Body,
		},
		Data: map[string]string{
			"alertId":  tag,
			"deepLink": string(alert.DeepLink),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Tag:       tag,
				ChannelID: "health_reminders",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":    "10",
				"apns-push-type":   "alert",
				"apns-collapse-id": tag,
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
