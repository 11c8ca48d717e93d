package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrImmutableRecord = errors.New("interest calculations are append-only")

// InterestCalculation is the audit entry produced once per completed deposit.
type InterestCalculation struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	AccountID       uint            `gorm:"not null;index" json:"account_id"`
	DepositID       uint            `gorm:"not null;uniqueIndex" json:"deposit_id"`
	Principal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"principal"`
	Rate            decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"rate"`
	InterestAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"interest_amount"`
	CalculationDate time.Time       `gorm:"not null" json:"calculation_date"`
	PeriodStart     time.Time       `gorm:"not null" json:"period_start"`
	PeriodEnd       time.Time       `gorm:"not null" json:"period_end"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (InterestCalculation) BeforeUpdate(*gorm.DB) error {
	return ErrImmutableRecord
}

func (InterestCalculation) BeforeDelete(*gorm.DB) error {
	return ErrImmutableRecord
}
