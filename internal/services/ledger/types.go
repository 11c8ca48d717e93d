package ledger

import "github.com/shopspring/decimal"

type Config struct {
	DefaultInterestRate decimal.Decimal
}

// Reconciliation compares stored account totals with the values derived
// from completed deposits and interest calculations.
type Reconciliation struct {
	UserID                uint            `json:"user_id"`
	AccountID             uint            `json:"account_id"`
	RecordedContributions decimal.Decimal `json:"recorded_contributions"`
	ExpectedContributions decimal.Decimal `json:"expected_contributions"`
	RecordedInterest      decimal.Decimal `json:"recorded_interest"`
	ExpectedInterest      decimal.Decimal `json:"expected_interest"`
	Balanced              bool            `json:"balanced"`
}
