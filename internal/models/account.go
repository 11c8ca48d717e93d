package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the per-member ledger record. TotalContributions always equals
// the sum of the member's completed deposits.
type Account struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalContributions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_contributions"`
	InterestEarned     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"interest_earned"`
	InterestRate       decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"interest_rate"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (a *Account) Balance() decimal.Decimal {
	return a.TotalContributions.Add(a.InterestEarned)
}
