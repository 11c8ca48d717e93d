package deposit

import (
	"context"
	"testing"

	"advance/internal/config"
	"advance/internal/models"
	"advance/internal/repositories/memory"
	"advance/internal/services/events"
	"advance/internal/services/ledger"
	"advance/internal/services/notification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inbox(t *testing.T, store *memory.Store, userID uint) []models.Notification {
	t.Helper()
	items, _, err := store.Notifications().List(context.Background(), userID, models.NotificationFilter{})
	require.NoError(t, err)
	return items
}

func TestDepositLifecycleNotifications(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	member := &models.User{Email: "jane@example.com", Name: "Jane", Phone: "+254700000001", IsActive: true}
	admin := &models.User{Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, store.Users().Create(ctx, member))
	require.NoError(t, store.Users().Create(ctx, admin))

	// Neither provider is configured, so email and SMS degrade to skips.
	dispatcher := notification.NewDispatcher(
		notification.NewPreferenceResolver(store.Preferences(), nil),
		[]notification.Sender{
			notification.NewInAppSender(store.Notifications(), nil, nil, nil),
			notification.NewEmailSender(config.SMTPConfig{}, nil),
			notification.NewSMSSender(config.SMSConfig{}),
		},
		store.Deliveries(), notification.Config{}, nil, nil,
	)
	bus := events.NewBus(events.BusConfig{}, nil, nil)
	bus.Subscribe(events.NewNotificationTrigger(store.Users(), dispatcher, nil))

	ledgerSvc := ledger.NewService(store.Ledger(), nil, ledger.Config{}, nil)
	svc := NewService(store.Ledger(), ledgerSvc, bus, Config{
		MonthlyAmount:       decimal.RequireFromString("20000.00"),
		DefaultInterestRate: decimal.RequireFromString("5.00"),
	}, nil, nil)

	d, err := svc.SubmitDeposit(ctx, member.ID, SubmitRequest{PaymentMethod: models.PaymentMethodMpesa})
	require.NoError(t, err)
	bus.Wait()

	memberInbox := inbox(t, store, member.ID)
	require.Len(t, memberInbox, 1)
	assert.Equal(t, "Deposit Submitted", memberInbox[0].Title)
	assert.Contains(t, memberInbox[0].Message, d.TransactionReference)

	adminInbox := inbox(t, store, admin.ID)
	require.Len(t, adminInbox, 1)
	assert.Equal(t, "New Deposit Pending", adminInbox[0].Title)

	records, err := store.Deliveries().ListByUser(ctx, member.ID, 10)
	require.NoError(t, err)
	statuses := map[models.Channel]models.DeliveryStatus{}
	for _, r := range records {
		statuses[r.Channel] = r.Status
	}
	assert.Equal(t, models.DeliverySent, statuses[models.ChannelInApp])
	assert.Equal(t, models.DeliverySkipped, statuses[models.ChannelEmail])
	assert.Equal(t, models.DeliverySkipped, statuses[models.ChannelSMS])

	_, err = svc.ApproveDeposit(ctx, d.ID, admin.ID)
	require.NoError(t, err)
	bus.Wait()

	memberInbox = inbox(t, store, member.ID)
	require.Len(t, memberInbox, 2)
	assert.Equal(t, "Deposit Approved", memberInbox[0].Title)
	assert.Len(t, inbox(t, store, admin.ID), 1)

	account, err := ledgerSvc.GetAccount(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "20000.00", account.TotalContributions.StringFixed(2))
	assert.Equal(t, "83.33", account.InterestEarned.StringFixed(2))
}

func TestRejectionNotifiesOwnerWithReason(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	member := &models.User{Email: "jane@example.com", Name: "Jane", IsActive: true}
	require.NoError(t, store.Users().Create(ctx, member))

	dispatcher := notification.NewDispatcher(
		notification.NewPreferenceResolver(store.Preferences(), nil),
		[]notification.Sender{notification.NewInAppSender(store.Notifications(), nil, nil, nil)},
		nil, notification.Config{}, nil, nil,
	)
	bus := events.NewBus(events.BusConfig{}, nil, nil)
	bus.Subscribe(events.NewNotificationTrigger(store.Users(), dispatcher, nil))
	svc := NewService(store.Ledger(), ledger.NewService(store.Ledger(), nil, ledger.Config{}, nil), bus, Config{}, nil, nil)

	d, err := svc.SubmitDeposit(ctx, member.ID, SubmitRequest{PaymentMethod: models.PaymentMethodBank})
	require.NoError(t, err)
	_, err = svc.RejectDeposit(ctx, d.ID, 99, "insufficient proof")
	require.NoError(t, err)
	bus.Wait()

	items := inbox(t, store, member.ID)
	require.Len(t, items, 2)
	var rejected *models.Notification
	for i := range items {
		if items[i].Type == models.TypeDepositRejected {
			rejected = &items[i]
		}
	}
	require.NotNil(t, rejected)
	assert.Contains(t, rejected.Message, "insufficient proof")
}
