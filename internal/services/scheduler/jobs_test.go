package scheduler

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"advance/internal/config"
	"advance/internal/models"
	"advance/internal/repositories/memory"
	"advance/internal/services/ledger"
	"advance/internal/services/notification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs map[uint]notification.Message
}

func (n *recordingNotifier) Dispatch(_ context.Context, to notification.Recipient, msg notification.Message, _ ...notification.DispatchOption) notification.Results {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.msgs == nil {
		n.msgs = map[uint]notification.Message{}
	}
	n.msgs[to.UserID] = msg
	return notification.Results{}
}

func (n *recordingNotifier) recipients() []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]uint, 0, len(n.msgs))
	for id := range n.msgs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func seed(t *testing.T, store *memory.Store) []models.User {
	t.Helper()
	users := []models.User{
		{Email: "a@example.com", Name: "A", IsActive: true},
		{Email: "b@example.com", Name: "B", IsActive: true},
		{Email: "c@example.com", Name: "C"},
		{Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin, IsActive: true},
	}
	for i := range users {
		require.NoError(t, store.Users().Create(context.Background(), &users[i]))
	}
	return users
}

func newJobs(store *memory.Store, notifier Notifier, now time.Time) *Jobs {
	return NewJobs(
		store.Users(),
		ledger.NewService(store.Ledger(), nil, ledger.Config{}, nil),
		store.Ledger().Deposits(),
		notifier,
		JobsConfig{MonthlyAmount: decimal.RequireFromString("20000.00"), Now: func() time.Time { return now }},
		nil,
	)
}

func TestJobs_SendMonthlyStatements(t *testing.T) {
	store := memory.NewStore()
	users := seed(t, store)
	notifier := &recordingNotifier{}

	n, err := newJobs(store, notifier, time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC)).SendMonthlyStatements(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{users[0].ID, users[1].ID}, notifier.recipients())
	msg := notifier.msgs[users[0].ID]
	assert.Equal(t, models.CategoryMonthlyReport, msg.Category)
	assert.Contains(t, msg.Body, "March 2024")
	assert.Contains(t, msg.Body, "As of 1 Apr 2024 06:00")
}

func TestJobs_SendContributionReminders(t *testing.T) {
	store := memory.NewStore()
	users := seed(t, store)
	require.NoError(t, store.Ledger().Deposits().Create(context.Background(), &models.Deposit{
		UserID:               users[0].ID,
		Period:               "2024-04",
		Amount:               decimal.RequireFromString("20000.00"),
		PaymentMethod:        models.PaymentMethodMpesa,
		Status:               models.DepositPending,
		TransactionReference: "DEP20240403ABCDEF",
	}))
	notifier := &recordingNotifier{}

	n, err := newJobs(store, notifier, time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC)).SendContributionReminders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, []uint{users[1].ID}, notifier.recipients())
	assert.Equal(t, models.TypeDepositReminder, notifier.msgs[users[1].ID].Type)
}

func TestScheduler_RejectsInvalidSchedule(t *testing.T) {
	jobs := newJobs(memory.NewStore(), &recordingNotifier{}, time.Now())
	s := NewScheduler(jobs, config.ScheduleConfig{MonthlyReport: "not a cron", DepositReminder: "0 9 5 * *"}, nil, nil)
	assert.Error(t, s.Start())
}

func TestScheduler_StartAndStop(t *testing.T) {
	jobs := newJobs(memory.NewStore(), &recordingNotifier{}, time.Now())
	s := NewScheduler(jobs, config.ScheduleConfig{MonthlyReport: "0 0 1 * *", DepositReminder: "0 9 5 * *"}, time.UTC, nil)
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
