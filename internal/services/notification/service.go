package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "advance/internal/errors"
	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/repositories"

	"go.uber.org/zap"
)

const (
	RecentLimit      = 10
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxDeliveries    = 200
)

// Service is the recipient-facing side of notifications: the inbox, read
// state, and channel preferences.
type Service struct {
	notifications repositories.NotificationRepository
	prefs         repositories.PreferenceRepository
	deliveries    repositories.DeliveryRepository
	counter       UnreadCounter
	now           func() time.Time
	log           *zap.Logger
}

// NewService creates the inbox service. deliveries and counter may be nil.
func NewService(
	notifications repositories.NotificationRepository,
	prefs repositories.PreferenceRepository,
	deliveries repositories.DeliveryRepository,
	counter UnreadCounter,
	log *zap.Logger,
) *Service {
	if notifications == nil || prefs == nil {
		panic("notification and preference repositories are required")
	}
	return &Service{
		notifications: notifications,
		prefs:         prefs,
		deliveries:    deliveries,
		counter:       counter,
		now:           time.Now,
		log:           logger.OrNop(log).Named("notifications"),
	}
}

// Page is one page of a recipient's inbox.
type Page struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	Limit         int                   `json:"limit"`
}

// ListNotifications returns the newest notifications first. page is 1-based.
func (s *Service) ListNotifications(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.notifications.List(ctx, userID, models.NotificationFilter{
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &Page{Notifications: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) Recent(ctx context.Context, userID uint) ([]models.Notification, error) {
	items, _, err := s.notifications.List(ctx, userID, models.NotificationFilter{Limit: RecentLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent notifications: %w", err)
	}
	return items, nil
}

// UnreadCount reads through the counter cache.
func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if s.counter != nil {
		if count, found, err := s.counter.GetUnreadCount(ctx, userID); err == nil && found {
			return count, nil
		}
	}

	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if s.counter != nil {
		if err := s.counter.SetUnreadCount(ctx, userID, count); err != nil {
			s.log.Warn("failed to cache unread count", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return count, nil
}

// MarkRead is idempotent: marking a read notification again keeps its
// original read timestamp.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uint) (*models.Notification, error) {
	n, err := s.get(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	at := s.now()
	if err := s.notifications.MarkRead(ctx, userID, notificationID, at); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	n.IsRead = true
	n.ReadAt = &at

	s.invalidate(ctx, userID)
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.invalidate(ctx, userID)
	return updated, nil
}

// DeleteNotification removes a read notification. Unread ones are refused.
func (s *Service) DeleteNotification(ctx context.Context, userID, notificationID uint) error {
	n, err := s.get(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !n.IsRead {
		return apperrors.ErrNotificationUnread
	}

	if err := s.notifications.Delete(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// ClearRead deletes every read notification of the user.
func (s *Service) ClearRead(ctx context.Context, userID uint) (int64, error) {
	deleted, err := s.notifications.DeleteRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear read notifications: %w", err)
	}
	return deleted, nil
}

// GetPreferences returns the stored preferences, or the all-enabled default
// when the user has none yet.
func (s *Service) GetPreferences(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	pref, err := s.prefs.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPreferenceNotFound) {
			def := models.DefaultPreference(userID)
			return &def, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return pref, nil
}

func (s *Service) SetPreferences(ctx context.Context, userID uint, update models.PreferenceUpdate) (*models.NotificationPreference, error) {
	if update.Empty() {
		return nil, apperrors.ErrInvalidPreference.Wrapf("no preference fields supplied")
	}

	pref, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	update.Apply(pref)
	pref.UserID = userID

	if err := s.prefs.Save(ctx, pref); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	s.log.Info("notification preferences updated", zap.Uint("user_id", userID))
	return pref, nil
}

// ListDeliveries returns the newest delivery records of a user.
func (s *Service) ListDeliveries(ctx context.Context, userID uint, limit int) ([]models.DeliveryRecord, error) {
	if s.deliveries == nil {
		return []models.DeliveryRecord{}, nil
	}
	if limit <= 0 || limit > maxDeliveries {
		limit = maxDeliveries
	}
	records, err := s.deliveries.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return records, nil
}

func (s *Service) get(ctx context.Context, userID, notificationID uint) (*models.Notification, error) {
	n, err := s.notifications.GetByID(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (s *Service) invalidate(ctx context.Context, userID uint) {
	if s.counter == nil {
		return
	}
	if err := s.counter.InvalidateUnreadCount(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate unread count", zap.Uint("user_id", userID), zap.Error(err))
	}
}
