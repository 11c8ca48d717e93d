package repositories

import (
	"context"
	"errors"
	"time"

	"advance/internal/models"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferenceNotFound   = errors.New("notification preference not found")
)

// NotificationRepository stores in-app notifications. Every method is scoped
// to the recipient so one user can never touch another user's rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, userID, id uint) (*models.Notification, error)
	List(ctx context.Context, userID uint, filter models.NotificationFilter) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, id uint, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
	Delete(ctx context.Context, userID, id uint) error
	DeleteRead(ctx context.Context, userID uint) (int64, error)
}

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	// Save inserts or replaces the row for pref.UserID.
	Save(ctx context.Context, pref *models.NotificationPreference) error
}

// DeliveryRepository stores one record per channel attempt.
type DeliveryRepository interface {
	Create(ctx context.Context, record *models.DeliveryRecord) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.DeliveryRecord, error)
}
