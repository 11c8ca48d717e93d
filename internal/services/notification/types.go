package notification

import (
	"time"

	"advance/internal/models"
)

// Recipient is the addressable view of a user.
type Recipient struct {
	UserID uint
	Name   string
	Email  string
	Phone  string
}

func RecipientFromUser(u models.User) Recipient {
	return Recipient{UserID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// Message is one notification rendered for every channel.
type Message struct {
	Type          models.NotificationType
	Category      models.Category
	Title         string
	Body          string
	EmailSubject  string
	EmailText     string
	EmailHTML     string
	SMSBody       string
	DepositID     *uint
	ApplicationID *uint
	// EventID correlates delivery records with the triggering event.
	EventID string
}

// Result is the outcome of one channel for one recipient.
type Result struct {
	Channel   models.Channel        `json:"channel"`
	Status    models.DeliveryStatus `json:"status"`
	Delivered bool                  `json:"delivered"`
	Error     string                `json:"error,omitempty"`
	Duration  time.Duration         `json:"duration"`
}

// Results maps each channel to its delivery result.
type Results map[models.Channel]Result

func (r Results) Delivered(ch models.Channel) bool {
	return r[ch].Delivered
}

type Config struct {
	// ChannelTimeout bounds a single Send call.
	ChannelTimeout time.Duration
	// Concurrency bounds recipients dispatched in parallel by DispatchAll.
	Concurrency int
}

type dispatchOptions struct {
	inAppOverride bool
}

type DispatchOption func(*dispatchOptions)

// WithInAppOverride forces the in-app channel on regardless of preferences.
// Email and SMS still follow the recipient's settings.
func WithInAppOverride() DispatchOption {
	return func(o *dispatchOptions) { o.inAppOverride = true }
}

// MetricsCollector records delivery outcomes.
type MetricsCollector interface {
	RecordDelivery(channel, status string, duration time.Duration)
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDelivery(string, string, time.Duration) {}
