package services

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/messaging"

	"uslugihub/internal/models"
)

// Notifier is the port the lifecycle services emit through. Emission is
// fire-and-forget: failures are logged by the implementation and never reach
// the caller.
type Notifier interface {
	Emit(userID int, ntype, title, message string, data map[string]string)
}

// StreamPusher delivers a notification to a connected websocket client.
type StreamPusher interface {
	PushNotification(userID int, n models.Notification)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID int) error
	GetTokensByUserID(ctx context.Context, userID int) ([]string, error)
}

const emitTimeout = 5 * time.Second

type NotificationService struct {
	NotificationRepo NotificationStore
	FCMClient        *messaging.Client // nil when push is not configured
	Stream           StreamPusher      // nil when the ws hub is not running
	ErrorLog         *log.Logger
}

// Emit writes the notification record and dispatches push/stream delivery in
// the background so callers never block on it.
func (s *NotificationService) Emit(userID int, ntype, title, message string, data map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()

		n, err := s.NotificationRepo.CreateNotification(ctx, models.Notification{
			UserID:  userID,
			Type:    ntype,
			Title:   title,
			Message: message,
			Data:    data,
		})
		if err != nil {
			s.logf("notification: create for user %d failed: %v", userID, err)
			return
		}
		if s.Stream != nil {
			s.Stream.PushNotification(userID, n)
		}
		s.push(ctx, n)
	}()
}

func (s *NotificationService) push(ctx context.Context, n models.Notification) {
	if s.FCMClient == nil {
		return
	}
	tokens, err := s.NotificationRepo.GetTokensByUserID(ctx, n.UserID)
	if err != nil {
		s.logf("notification: fetch tokens for user %d failed: %v", n.UserID, err)
		return
	}
	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: n.Title,
				Body:  n.Message,
			},
			Data: n.Data,
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{"apns-priority": "10"},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{Title: n.Title, Body: n.Message},
						Sound: "default",
					},
				},
			},
		}
		if _, err := s.FCMClient.Send(ctx, msg); err != nil {
			s.logf("notification: push to token of user %d failed: %v", n.UserID, err)
		}
	}
}

func (s *NotificationService) ListByUser(ctx context.Context, userID int) ([]models.Notification, error) {
	return s.NotificationRepo.ListNotificationsByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	return s.NotificationRepo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}
