package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"readAt"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationEventKind names a change to a user's notification feed.
type NotificationEventKind string

const (
	NotificationEventRead    NotificationEventKind = "notification.read"
	NotificationEventReadAll NotificationEventKind = "notification.read_all"
	NotificationEventDeleted NotificationEventKind = "notification.deleted"
)

// NotificationEvent is published after every feed mutation so open clients
// can refetch without polling.
type NotificationEvent struct {
	Event          NotificationEventKind `json:"event"`
	NotificationID *uuid.UUID            `json:"notificationId,omitempty"`
	UnreadCount    int64                 `json:"unreadCount"`
}
