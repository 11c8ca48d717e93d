package models

import "time"

type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// DeliveryRecord is the audit row written for every channel attempt.
type DeliveryRecord struct {
	ID         string           `gorm:"primaryKey;size:26" json:"id"`
	EventID    string           `gorm:"size:26;index" json:"event_id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	Type       NotificationType `gorm:"size:40" json:"notification_type"`
	Channel    Channel          `gorm:"size:10;not null" json:"channel"`
	Status     DeliveryStatus   `gorm:"size:10;not null" json:"status"`
	Error      string           `gorm:"type:text" json:"error,omitempty"`
	DurationMs int64            `json:"duration_ms"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
}
