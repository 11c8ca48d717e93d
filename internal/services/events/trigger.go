package events

import (
	"context"
	"errors"
	"fmt"

	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/services/notification"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Directory answers the two user questions the trigger needs. The user
// repository satisfies it.
type Directory interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	ListActiveStaff(ctx context.Context) ([]models.User, error)
}

// Notifier is satisfied by notification.Dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, to notification.Recipient, msg notification.Message, opts ...notification.DispatchOption) notification.Results
	DispatchAll(ctx context.Context, recipients []notification.Recipient, msg notification.Message, opts ...notification.DispatchOption) map[uint]notification.Results
}

// NotificationTrigger turns deposit events into notifications. Creation
// reaches the owner and every active staff member; terminal transitions reach
// the owner only.
type NotificationTrigger struct {
	users    Directory
	notifier Notifier
	log      *zap.Logger
}

func NewNotificationTrigger(users Directory, notifier Notifier, log *zap.Logger) *NotificationTrigger {
	if users == nil || notifier == nil {
		panic("directory and notifier are required")
	}
	return &NotificationTrigger{
		users:    users,
		notifier: notifier,
		log:      logger.OrNop(log).Named("trigger"),
	}
}

func (t *NotificationTrigger) Name() string { return "notifications" }

func (t *NotificationTrigger) Handle(ctx context.Context, e Event) error {
	owner, ownerErr := t.users.GetByID(ctx, e.Deposit.UserID)
	var to notification.Recipient
	if ownerErr != nil {
		ownerErr = fmt.Errorf("failed to load deposit owner %d: %w", e.Deposit.UserID, ownerErr)
		t.log.Error("deposit owner lookup failed",
			zap.String("event_id", e.ID),
			zap.Uint("user_id", e.Deposit.UserID),
			zap.Error(ownerErr),
		)
		to = notification.Recipient{UserID: e.Deposit.UserID, Name: fmt.Sprintf("Member #%d", e.Deposit.UserID)}
	} else {
		to = notification.RecipientFromUser(*owner)
	}

	var msg notification.Message
	switch e.Type {
	case DepositCreated:
		msg = notification.DepositSubmittedMessage(e.Deposit, to)
	case DepositApproved:
		msg = notification.DepositApprovedMessage(e.Deposit, to)
	case DepositRejected:
		reason := e.Reason
		if reason == "" {
			reason = e.Deposit.RejectionReason
		}
		msg = notification.DepositRejectedMessage(e.Deposit, to, reason)
	case DepositCancelled:
		msg = notification.DepositCancelledMessage(e.Deposit, to)
	default:
		t.log.Debug("ignoring event", zap.String("type", string(e.Type)))
		return nil
	}
	msg.EventID = e.ID

	// Sends are bounded by the dispatcher's per-channel timeout only, so a
	// slow recipient cannot use up the deadline of the others.
	sendCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	if ownerErr == nil {
		g.Go(func() error {
			results := t.notifier.Dispatch(sendCtx, to, msg)
			t.log.Info("owner notified",
				zap.String("event_id", e.ID),
				zap.String("type", string(e.Type)),
				zap.Uint("user_id", to.UserID),
				zap.Bool("in_app", results.Delivered(models.ChannelInApp)),
			)
			return nil
		})
	}
	if e.Type == DepositCreated {
		g.Go(func() error {
			return t.notifyStaff(ctx, sendCtx, e, to)
		})
	}
	staffErr := g.Wait()

	return errors.Join(ownerErr, staffErr)
}

// notifyStaff lists staff with the handler context and sends with sendCtx.
func (t *NotificationTrigger) notifyStaff(ctx, sendCtx context.Context, e Event, owner notification.Recipient) error {
	staff, err := t.users.ListActiveStaff(ctx)
	if err != nil {
		return fmt.Errorf("failed to list staff: %w", err)
	}

	recipients := make([]notification.Recipient, 0, len(staff))
	for _, u := range staff {
		if u.ID == owner.UserID {
			continue
		}
		recipients = append(recipients, notification.RecipientFromUser(u))
	}
	if len(recipients) == 0 {
		return nil
	}

	msg := notification.DepositPendingReviewMessage(e.Deposit, owner)
	msg.EventID = e.ID
	t.notifier.DispatchAll(sendCtx, recipients, msg, notification.WithInAppOverride())

	t.log.Info("staff notified", zap.String("event_id", e.ID), zap.Int("recipients", len(recipients)))
	return nil
}

var _ Subscriber = (*NotificationTrigger)(nil)
