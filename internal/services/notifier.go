package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nosaterra/apiserver/internal/mq"
	"github.com/nosaterra/apiserver/types"
	"github.com/sirupsen/logrus"
)

const notificationsChannel = "notifications"

// Notification is the payload fanned out to the broker when content
// members should hear about is created.
type Notification struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier publishes notifications over the configured message queue.
// Publishing is best-effort: failures are logged and never surfaced to
// the request that triggered them. A nil Notifier or a Notifier without
// a broker is a no-op.
type Notifier struct {
	queue  *mq.MQ
	logger *logrus.Logger
}

func NewNotifier(queue *mq.MQ, logger *logrus.Logger) *Notifier {
	return &Notifier{queue: queue, logger: logger}
}

// AnnouncementCreated publishes a notification for a new announcement.
func (n *Notifier) AnnouncementCreated(ctx context.Context, announcement types.Announcement) {
	n.publish(ctx, Notification{
		Type:      "announcement.created",
		ID:        announcement.ID,
		Title:     announcement.Title,
		ActorID:   announcement.CreatedBy,
		CreatedAt: announcement.CreatedAt,
	})
}

// EventCreated publishes a notification for a new event.
func (n *Notifier) EventCreated(ctx context.Context, event types.Event) {
	n.publish(ctx, Notification{
		Type:      "event.created",
		ID:        event.ID,
		Title:     event.Title,
		ActorID:   event.CreatedBy,
		CreatedAt: event.CreatedAt,
	})
}

func (n *Notifier) publish(ctx context.Context, notification Notification) {
	if n == nil || n.queue == nil {
		return
	}

	data, err := json.Marshal(notification)
	if err != nil {
		n.log().WithError(err).WithField("type", notification.Type).
			Warn("failed to encode notification")
		return
	}

	attrs := map[string]string{"type": notification.Type}
	if _, err := n.queue.Publish(ctx, notificationsChannel, data, attrs); err != nil {
		n.log().WithError(err).WithField("type", notification.Type).
			Warn("failed to publish notification")
	}
}

func (n *Notifier) log() *logrus.Logger {
	if n.logger != nil {
		return n.logger
	}
	return logrus.StandardLogger()
}
