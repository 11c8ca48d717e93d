package deposit

import (
	"time"

	"advance/internal/models"

	"github.com/shopspring/decimal"
)

type Config struct {
	// MonthlyAmount is the fixed contribution every deposit carries.
	MonthlyAmount       decimal.Decimal
	DefaultInterestRate decimal.Decimal
	// Location decides calendar month boundaries.
	Location *time.Location

	Now          func() time.Time
	NewReference ReferenceGenerator
}

type SubmitRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	MpesaPhone    string               `json:"mpesa_phone"`
	Notes         string               `json:"notes"`
}

// Eligibility answers whether an owner may submit this month.
type Eligibility struct {
	CanDeposit bool            `json:"can_deposit"`
	Message    string          `json:"message"`
	Period     string          `json:"period"`
	Amount     decimal.Decimal `json:"amount"`
}

type MetricsCollector interface {
	RecordOperationResult(operation, result string)
	RecordOperationDuration(operation string, d time.Duration)
	RecordLedgerCredit(amount, interest decimal.Decimal)
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationResult(string, string)                {}
func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration)       {}
func (NoopMetricsCollector) RecordLedgerCredit(decimal.Decimal, decimal.Decimal) {}
