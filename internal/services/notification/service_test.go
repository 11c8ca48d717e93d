package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "advance/internal/errors"
	"advance/internal/models"
	"advance/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockCounter) SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	return m.Called(ctx, userID, count).Error(0)
}

func (m *MockCounter) InvalidateUnreadCount(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func seedInbox(t *testing.T, store *memory.Store, userID uint, n int) []models.Notification {
	t.Helper()
	out := make([]models.Notification, 0, n)
	for i := 0; i < n; i++ {
		item := &models.Notification{
			UserID:    userID,
			Type:      models.TypeSystem,
			Category:  models.CategorySystem,
			Title:     "Notice",
			Message:   "body",
			CreatedAt: time.Date(2024, 3, 1, 0, i, 0, 0, time.UTC),
		}
		require.NoError(t, store.Notifications().Create(context.Background(), item))
		out = append(out, *item)
	}
	return out
}

func newTestService(store *memory.Store, counter UnreadCounter) *Service {
	return NewService(store.Notifications(), store.Preferences(), store.Deliveries(), counter, nil)
}

func TestService_ListNotifications(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedInbox(t, store, 1, 25)
	seedInbox(t, store, 2, 3)
	require.NoError(t, store.Notifications().MarkRead(ctx, 1, seeded[0].ID, time.Now()))

	s := newTestService(store, nil)

	page, err := s.ListNotifications(ctx, 1, false, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 25, page.Total)
	assert.Len(t, page.Notifications, 20)
	assert.Equal(t, seeded[24].ID, page.Notifications[0].ID)

	page, err = s.ListNotifications(ctx, 1, false, 2, 20)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 5)

	unread, err := s.ListNotifications(ctx, 1, true, 1, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 24, unread.Total)

	recent, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, RecentLimit)
}

func TestService_UnreadCount(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockCounter)
		want      int64
	}{
		{
			name: "cache hit",
			setupMock: func(m *MockCounter) {
				m.On("GetUnreadCount", mock.Anything, uint(1)).Return(int64(9), true, nil)
			},
			want: 9,
		},
		{
			name: "cache miss reads the store and fills the cache",
			setupMock: func(m *MockCounter) {
				m.On("GetUnreadCount", mock.Anything, uint(1)).Return(int64(0), false, nil)
				m.On("SetUnreadCount", mock.Anything, uint(1), int64(3)).Return(nil)
			},
			want: 3,
		},
		{
			name: "cache error falls back to the store",
			setupMock: func(m *MockCounter) {
				m.On("GetUnreadCount", mock.Anything, uint(1)).Return(int64(0), false, errors.New("redis down"))
				m.On("SetUnreadCount", mock.Anything, uint(1), int64(3)).Return(errors.New("redis down"))
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			seedInbox(t, store, 1, 3)
			counter := new(MockCounter)
			tt.setupMock(counter)

			got, err := newTestService(store, counter).UnreadCount(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			counter.AssertExpectations(t)
		})
	}
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedInbox(t, store, 1, 2)
	counter := new(MockCounter)
	counter.On("InvalidateUnreadCount", mock.Anything, uint(1)).Return(nil)

	s := newTestService(store, counter)
	fixed := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	n, err := s.MarkRead(ctx, 1, seeded[0].ID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.Equal(t, fixed, *n.ReadAt)

	s.now = func() time.Time { return fixed.Add(time.Hour) }
	again, err := s.MarkRead(ctx, 1, seeded[0].ID)
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(fixed))

	_, err = s.MarkRead(ctx, 2, seeded[1].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)

	updated, err := s.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	count, err := store.Notifications().CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
	counter.AssertNumberOfCalls(t, "InvalidateUnreadCount", 2)
}

func TestService_DeleteNotification(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeded := seedInbox(t, store, 1, 3)
	require.NoError(t, store.Notifications().MarkRead(ctx, 1, seeded[0].ID, time.Now()))
	require.NoError(t, store.Notifications().MarkRead(ctx, 1, seeded[1].ID, time.Now()))

	s := newTestService(store, nil)

	assert.ErrorIs(t, s.DeleteNotification(ctx, 1, seeded[2].ID), apperrors.ErrNotificationUnread)
	assert.ErrorIs(t, s.DeleteNotification(ctx, 2, seeded[0].ID), apperrors.ErrNotificationNotFound)
	require.NoError(t, s.DeleteNotification(ctx, 1, seeded[0].ID))

	cleared, err := s.ClearRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)

	page, err := s.ListNotifications(ctx, 1, false, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, seeded[2].ID, page.Notifications[0].ID)
}

func TestService_Preferences(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := newTestService(store, nil)

	pref, err := s.GetPreferences(ctx, 4)
	require.NoError(t, err)
	assert.True(t, pref.Email)
	assert.True(t, pref.MonthlyReports)

	_, err = s.SetPreferences(ctx, 4, models.PreferenceUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPreference)

	off := false
	pref, err = s.SetPreferences(ctx, 4, models.PreferenceUpdate{SMS: &off, MonthlyReports: &off})
	require.NoError(t, err)
	assert.False(t, pref.SMS)
	assert.True(t, pref.Email)

	stored, err := store.Preferences().GetByUserID(ctx, 4)
	require.NoError(t, err)
	assert.False(t, stored.SMS)
	assert.False(t, stored.MonthlyReports)
	assert.True(t, stored.DepositNotifications)
}
