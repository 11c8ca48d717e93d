package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONTHLY_DEPOSIT_AMOUNT", "")
	t.Setenv("DEFAULT_INTEREST_RATE", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("AFRICASTALKING_API_KEY", "")
	t.Setenv("TIMEZONE", "UTC")

	s := Load()

	assert.True(t, s.Ledger.MonthlyDepositAmount.Equal(decimal.RequireFromString("20000.00")))
	assert.True(t, s.Ledger.DefaultInterestRate.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, time.UTC, s.Ledger.Location)
	assert.False(t, s.SMTP.Configured())
	assert.False(t, s.SMS.Configured())
	assert.Equal(t, 10*time.Second, s.Notification.ChannelTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONTHLY_DEPOSIT_AMOUNT", "15000.50")
	t.Setenv("DEFAULT_INTEREST_RATE", "7.25")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("AFRICASTALKING_API_KEY", "key")
	t.Setenv("AFRICASTALKING_USERNAME", "sandbox")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("NOTIFY_CHANNEL_TIMEOUT", "3s")
	t.Setenv("TIMEZONE", "Not/AZone")

	s := Load()

	assert.Equal(t, "15000.5", s.Ledger.MonthlyDepositAmount.String())
	assert.Equal(t, "7.25", s.Ledger.DefaultInterestRate.String())
	assert.True(t, s.SMTP.Configured())
	assert.True(t, s.SMS.Configured())
	require.Len(t, s.Kafka.Brokers, 2)
	assert.Equal(t, "k2:9092", s.Kafka.Brokers[1])
	assert.Equal(t, 3*time.Second, s.Notification.ChannelTimeout)
	assert.Equal(t, time.UTC, s.Ledger.Location)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_DEC", "abc")

	assert.Equal(t, 4, GetIntEnv("X_INT", 4))
	assert.True(t, GetBoolEnv("X_BOOL", false))
	assert.True(t, GetDecimalEnv("X_DEC", decimal.NewFromInt(9)).Equal(decimal.NewFromInt(9)))
	assert.Equal(t, "fallback", GetEnv("X_MISSING_KEY", "fallback"))
	assert.Nil(t, GetListEnv("X_MISSING_KEY"))
}
