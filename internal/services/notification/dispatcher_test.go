package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"advance/internal/models"
	"advance/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	ch    models.Channel
	fn    func(ctx context.Context, to Recipient, msg Message) error
	calls atomic.Int32
}

func (s *stubSender) Channel() models.Channel { return s.ch }

func (s *stubSender) Send(ctx context.Context, to Recipient, msg Message) error {
	s.calls.Add(1)
	if s.fn == nil {
		return nil
	}
	return s.fn(ctx, to, msg)
}

type staticResolver map[models.Channel]bool

func (r staticResolver) Resolve(context.Context, uint, models.Category) map[models.Channel]bool {
	out := make(map[models.Channel]bool, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

var allEnabled = staticResolver{models.ChannelInApp: true, models.ChannelEmail: true, models.ChannelSMS: true}

type recordingMetrics struct {
	mu    sync.Mutex
	count map[string]int
}

func (m *recordingMetrics) RecordDelivery(channel, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == nil {
		m.count = map[string]int{}
	}
	m.count[channel+"/"+status]++
}

func testMessage() Message {
	return Message{
		Type:     models.TypeDepositCreated,
		Category: models.CategoryDeposit,
		Title:    "Deposit Submitted",
		Body:     "Your deposit has been submitted.",
	}
}

func TestDispatcher_Dispatch(t *testing.T) {
	recipient := Recipient{UserID: 1, Name: "Jane", Email: "jane@example.com", Phone: "+254700000001"}

	tests := []struct {
		name     string
		resolver staticResolver
		email    func(ctx context.Context, to Recipient, msg Message) error
		sms      func(ctx context.Context, to Recipient, msg Message) error
		opts     []DispatchOption
		want     map[models.Channel]models.DeliveryStatus
		wantErr  map[models.Channel]string
	}{
		{
			name:     "all channels delivered",
			resolver: allEnabled,
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliverySent,
				models.ChannelSMS:   models.DeliverySent,
			},
		},
		{
			name:     "unconfigured email is skipped",
			resolver: allEnabled,
			email: func(context.Context, Recipient, Message) error {
				return ErrChannelNotConfigured
			},
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliverySkipped,
				models.ChannelSMS:   models.DeliverySent,
			},
		},
		{
			name:     "provider error fails only its channel",
			resolver: allEnabled,
			sms: func(context.Context, Recipient, Message) error {
				return errors.New("sms provider returned 500")
			},
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliverySent,
				models.ChannelSMS:   models.DeliveryFailed,
			},
			wantErr: map[models.Channel]string{models.ChannelSMS: "500"},
		},
		{
			name:     "panicking sender is contained",
			resolver: allEnabled,
			email: func(context.Context, Recipient, Message) error {
				panic("boom")
			},
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliveryFailed,
				models.ChannelSMS:   models.DeliverySent,
			},
			wantErr: map[models.Channel]string{models.ChannelEmail: "boom"},
		},
		{
			name:     "slow sender times out",
			resolver: allEnabled,
			sms: func(context.Context, Recipient, Message) error {
				time.Sleep(300 * time.Millisecond)
				return nil
			},
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliverySent,
				models.ChannelSMS:   models.DeliveryFailed,
			},
			wantErr: map[models.Channel]string{models.ChannelSMS: "timed out"},
		},
		{
			name:     "disabled channels are not attempted",
			resolver: staticResolver{models.ChannelInApp: true},
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliverySkipped,
				models.ChannelSMS:   models.DeliverySkipped,
			},
		},
		{
			name:     "in-app override ignores in-app preference only",
			resolver: staticResolver{models.ChannelSMS: true},
			opts:     []DispatchOption{WithInAppOverride()},
			want: map[models.Channel]models.DeliveryStatus{
				models.ChannelInApp: models.DeliverySent,
				models.ChannelEmail: models.DeliverySkipped,
				models.ChannelSMS:   models.DeliverySent,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			inApp := NewInAppSender(store.Notifications(), nil, nil, nil)
			email := &stubSender{ch: models.ChannelEmail, fn: tt.email}
			sms := &stubSender{ch: models.ChannelSMS, fn: tt.sms}

			d := NewDispatcher(tt.resolver, []Sender{inApp, email, sms}, store.Deliveries(),
				Config{ChannelTimeout: 50 * time.Millisecond}, nil, nil)

			results := d.Dispatch(context.Background(), recipient, testMessage(), tt.opts...)

			for ch, status := range tt.want {
				assert.Equal(t, status, results[ch].Status, "channel %s", ch)
				assert.Equal(t, status == models.DeliverySent, results.Delivered(ch), "channel %s", ch)
			}
			for ch, msg := range tt.wantErr {
				assert.Contains(t, results[ch].Error, msg)
			}
			if tt.want[models.ChannelInApp] != models.DeliverySent {
				return
			}

			inbox, total, err := store.Notifications().List(context.Background(), recipient.UserID, models.NotificationFilter{})
			require.NoError(t, err)
			assert.EqualValues(t, 1, total)
			assert.Equal(t, "Deposit Submitted", inbox[0].Title)
		})
	}
}

func TestDispatcher_RecordsAttemptedChannels(t *testing.T) {
	store := memory.NewStore()
	metrics := &recordingMetrics{}
	email := &stubSender{ch: models.ChannelEmail, fn: func(context.Context, Recipient, Message) error {
		return ErrChannelNotConfigured
	}}
	d := NewDispatcher(staticResolver{models.ChannelInApp: true, models.ChannelEmail: true},
		[]Sender{NewInAppSender(store.Notifications(), nil, nil, nil), email},
		store.Deliveries(), Config{}, metrics, nil)

	msg := testMessage()
	msg.EventID = "01HZX3B1Q4C8D2E6F7G8H9J0KM"
	d.Dispatch(context.Background(), Recipient{UserID: 3}, msg)

	records, err := store.Deliveries().ListByUser(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byChannel := map[models.Channel]models.DeliveryRecord{}
	for _, r := range records {
		byChannel[r.Channel] = r
		assert.Equal(t, msg.EventID, r.EventID)
		assert.Len(t, r.ID, 26)
	}
	assert.Equal(t, models.DeliverySent, byChannel[models.ChannelInApp].Status)
	assert.Equal(t, models.DeliverySkipped, byChannel[models.ChannelEmail].Status)
	assert.Equal(t, 1, metrics.count["in_app/sent"])
	assert.Equal(t, 1, metrics.count["email/skipped"])
	assert.Zero(t, metrics.count["sms/skipped"])
}

func TestDispatcher_DispatchAllIsolatesRecipients(t *testing.T) {
	store := memory.NewStore()
	sms := &stubSender{ch: models.ChannelSMS, fn: func(_ context.Context, to Recipient, _ Message) error {
		if to.UserID == 1 {
			time.Sleep(300 * time.Millisecond)
		}
		return nil
	}}
	email := &stubSender{ch: models.ChannelEmail, fn: func(_ context.Context, to Recipient, _ Message) error {
		if to.UserID == 2 {
			return errors.New("mailbox unavailable")
		}
		return nil
	}}
	d := NewDispatcher(allEnabled, []Sender{NewInAppSender(store.Notifications(), nil, nil, nil), email, sms},
		nil, Config{ChannelTimeout: 50 * time.Millisecond, Concurrency: 4}, nil, nil)

	recipients := []Recipient{{UserID: 1}, {UserID: 2}, {UserID: 3}}
	out := d.DispatchAll(context.Background(), recipients, testMessage())

	require.Len(t, out, 3)
	assert.Equal(t, models.DeliveryFailed, out[1][models.ChannelSMS].Status)
	assert.Equal(t, models.DeliverySent, out[1][models.ChannelEmail].Status)
	assert.Equal(t, models.DeliveryFailed, out[2][models.ChannelEmail].Status)
	assert.Equal(t, models.DeliverySent, out[2][models.ChannelSMS].Status)
	for _, ch := range models.Channels {
		assert.True(t, out[3].Delivered(ch))
	}
	assert.EqualValues(t, 3, sms.calls.Load())
	for _, r := range recipients {
		count, err := store.Notifications().CountUnread(context.Background(), r.UserID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	}
}
