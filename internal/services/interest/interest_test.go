package interest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccrue(t *testing.T) {
	asOf := time.Date(2024, time.March, 17, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		principal string
		rate      string
		want      string
	}{
		{name: "standard monthly deposit", principal: "20000.00", rate: "5.00", want: "83.33"},
		{name: "zero rate", principal: "20000.00", rate: "0", want: "0"},
		{name: "half cent rounds to even down", principal: "1.50", rate: "10", want: "0.01"},
		{name: "half cent rounds to even up", principal: "4.20", rate: "5", want: "0.02"},
		{name: "higher rate", principal: "20000.00", rate: "12.00", want: "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Accrue(decimal.RequireFromString(tt.principal), decimal.RequireFromString(tt.rate), asOf)
			assert.True(t, got.Interest.Equal(decimal.RequireFromString(tt.want)), "got %s", got.Interest)
			assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), got.PeriodStart)
			assert.Equal(t, asOf, got.PeriodEnd)
		})
	}
}

func TestAccrue_Deterministic(t *testing.T) {
	asOf := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	principal := decimal.RequireFromString("20000.00")
	rate := decimal.RequireFromString("5.00")

	first := Accrue(principal, rate, asOf)
	for i := 0; i < 50; i++ {
		next := Accrue(principal, rate, asOf)
		assert.True(t, first.Interest.Equal(next.Interest))
		assert.Equal(t, first.PeriodStart, next.PeriodStart)
	}
}

func TestPeriod_UsesLocation(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	utcLate := time.Date(2024, time.January, 31, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01", Period(utcLate))
	assert.Equal(t, "2024-02", Period(utcLate.In(nairobi)))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, nairobi), MonthStart(utcLate.In(nairobi)))
}
