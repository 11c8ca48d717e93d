package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodMpesa  PaymentMethod = "mpesa"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodMansaX PaymentMethod = "mansa_x"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodMpesa, PaymentMethodBank, PaymentMethodMansaX:
		return true
	}
	return false
}

// Label is the human readable method name used in messages.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodMpesa:
		return "M-Pesa"
	case PaymentMethodBank:
		return "Bank Transfer"
	case PaymentMethodMansaX:
		return "Mansa-X"
	}
	return string(m)
}

type DepositStatus string

const (
	DepositPending   DepositStatus = "pending"
	DepositCompleted DepositStatus = "completed"
	DepositFailed    DepositStatus = "failed"
	DepositCancelled DepositStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s DepositStatus) IsTerminal() bool {
	return s == DepositCompleted || s == DepositFailed || s == DepositCancelled
}

// IsActive reports whether the status occupies the owner's monthly slot.
func (s DepositStatus) IsActive() bool {
	return s == DepositPending || s == DepositCompleted
}

// Deposit is a single monthly contribution attempt.
//
// The partial unique index on (user_id, period) allows at most one pending or
// completed deposit per owner per calendar month.
type Deposit struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	UserID                uint            `gorm:"not null;index;uniqueIndex:idx_deposits_user_period_active,where:status <> 'failed' AND status <> 'cancelled'" json:"user_id"`
	Period                string          `gorm:"size:7;not null;uniqueIndex:idx_deposits_user_period_active" json:"period"`
	Amount                decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentMethod         PaymentMethod   `gorm:"size:20;not null" json:"payment_method"`
	MpesaPhone            string          `gorm:"size:20" json:"mpesa_phone,omitempty"`
	Notes                 string          `gorm:"type:text" json:"notes,omitempty"`
	Status                DepositStatus   `gorm:"size:20;not null;index" json:"status"`
	TransactionReference  string          `gorm:"size:32;not null;uniqueIndex:idx_deposits_reference" json:"transaction_reference"`
	InterestCalculationID *uint           `json:"interest_calculation_id,omitempty"`
	ApprovedBy            *uint           `json:"approved_by,omitempty"`
	ApprovedAt            *time.Time      `json:"approved_at,omitempty"`
	RejectedBy            *uint           `json:"rejected_by,omitempty"`
	RejectedAt            *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason       string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	CancelledAt           *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt             time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// DepositFilter narrows deposit listings. Zero values match everything.
type DepositFilter struct {
	UserID uint
	Status DepositStatus
	Limit  int
	Offset int
}

// MonthlyTotal is one row of a member's completed-contribution summary.
type MonthlyTotal struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}
