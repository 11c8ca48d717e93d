package models

import "time"

type Category string

const (
	CategoryDeposit       Category = "deposit"
	CategoryApplication   Category = "application"
	CategoryDocument      Category = "document"
	CategoryBeneficiary   Category = "beneficiary"
	CategoryMonthlyReport Category = "monthly_report"
	CategorySystem        Category = "system"
)

type NotificationType string

const (
	TypeDepositCreated   NotificationType = "deposit_created"
	TypeDepositApproved  NotificationType = "deposit_approved"
	TypeDepositRejected  NotificationType = "deposit_rejected"
	TypeDepositCancelled NotificationType = "deposit_cancelled"
	TypeDepositReminder  NotificationType = "deposit_reminder"
	TypeMonthlyStatement NotificationType = "monthly_statement"
	TypeSystem           NotificationType = "system"
)

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Channels lists every delivery channel in dispatch order.
var Channels = []Channel{ChannelInApp, ChannelEmail, ChannelSMS}

// Notification is the in-app record of a delivered event.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	UserID        uint             `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	Type          NotificationType `gorm:"size:40;not null" json:"notification_type"`
	Category      Category         `gorm:"size:30;not null" json:"category"`
	Title         string           `gorm:"size:200;not null" json:"title"`
	Message       string           `gorm:"type:text;not null" json:"message"`
	DepositID     *uint            `gorm:"index" json:"deposit_id,omitempty"`
	ApplicationID *uint            `json:"application_id,omitempty"`
	IsRead        bool             `gorm:"not null;index:idx_notifications_user_read" json:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
}

// NotificationFilter selects notifications for a recipient.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
