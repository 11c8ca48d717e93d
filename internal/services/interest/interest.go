// Package interest computes monthly interest on approved contributions.
//
// Accrue is pure: identical inputs always produce identical results, which lets
// the audit trail be rebuilt to the cent from completed deposits.
package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

var monthsPerYearPercent = decimal.NewFromInt(1200)

// Accrual is the outcome of one interest computation.
type Accrual struct {
	Interest    decimal.Decimal
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// Accrue applies one twelfth of the annual ratePercent to principal, rounded
// half-even to cents. The period runs from the first of asOf's month to asOf.
func Accrue(principal, ratePercent decimal.Decimal, asOf time.Time) Accrual {
	return Accrual{
		Interest:    principal.Mul(ratePercent).Div(monthsPerYearPercent).RoundBank(2),
		PeriodStart: MonthStart(asOf),
		PeriodEnd:   asOf,
	}
}

// MonthStart returns midnight on the first day of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Period formats the calendar month key used for the monthly contribution rule.
func Period(t time.Time) string {
	return t.Format("2006-01")
}
