package notification

import (
	"context"
	"fmt"

	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/repositories"
	"advance/internal/repositories/cache"

	"go.uber.org/zap"
)

// RealtimePublisher pushes payloads to connected clients. The Redis cache
// service satisfies it.
type RealtimePublisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

// UnreadCounter caches per-user unread counts.
type UnreadCounter interface {
	GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error)
	SetUnreadCount(ctx context.Context, userID uint, count int64) error
	InvalidateUnreadCount(ctx context.Context, userID uint) error
}

// InAppSender stores the Notification row, the system of record for every
// notice a member sees.
type InAppSender struct {
	repo     repositories.NotificationRepository
	realtime RealtimePublisher
	counter  UnreadCounter
	log      *zap.Logger
}

// NewInAppSender creates the in-app channel. realtime and counter may be nil.
func NewInAppSender(repo repositories.NotificationRepository, realtime RealtimePublisher, counter UnreadCounter, log *zap.Logger) *InAppSender {
	if repo == nil {
		panic("notification repository is required")
	}
	return &InAppSender{
		repo:     repo,
		realtime: realtime,
		counter:  counter,
		log:      logger.OrNop(log).Named("inapp"),
	}
}

func (s *InAppSender) Channel() models.Channel { return models.ChannelInApp }

func (s *InAppSender) Send(ctx context.Context, to Recipient, msg Message) error {
	n := &models.Notification{
		UserID:        to.UserID,
		Type:          msg.Type,
		Category:      msg.Category,
		Title:         msg.Title,
		Message:       msg.Body,
		DepositID:     msg.DepositID,
		ApplicationID: msg.ApplicationID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.counter != nil {
		if err := s.counter.InvalidateUnreadCount(ctx, to.UserID); err != nil {
			s.log.Warn("failed to invalidate unread count", zap.Uint("user_id", to.UserID), zap.Error(err))
		}
	}
	if s.realtime != nil {
		if err := s.realtime.Publish(ctx, cache.NotificationChannel(to.UserID), n); err != nil {
			s.log.Warn("failed to publish realtime notification", zap.Uint("user_id", to.UserID), zap.Error(err))
		}
	}
	return nil
}
