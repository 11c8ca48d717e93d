package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationPreference_Allows(t *testing.T) {
	off := false

	tests := []struct {
		name   string
		update PreferenceUpdate
		cat    Category
		ch     Channel
		want   bool
	}{
		{name: "defaults allow everything", cat: CategoryDeposit, ch: ChannelSMS, want: true},
		{name: "channel disabled", update: PreferenceUpdate{Email: &off}, cat: CategoryDeposit, ch: ChannelEmail, want: false},
		{name: "category disabled", update: PreferenceUpdate{DepositNotifications: &off}, cat: CategoryDeposit, ch: ChannelInApp, want: false},
		{name: "other category unaffected", update: PreferenceUpdate{DepositNotifications: &off}, cat: CategoryMonthlyReport, ch: ChannelInApp, want: true},
		{name: "system has no category switch", update: PreferenceUpdate{MonthlyReports: &off}, cat: CategorySystem, ch: ChannelInApp, want: true},
		{name: "system still honours channel", update: PreferenceUpdate{InApp: &off}, cat: CategorySystem, ch: ChannelInApp, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreference(1)
			tt.update.Apply(&p)
			assert.Equal(t, tt.want, p.Allows(tt.cat, tt.ch))
		})
	}
}

func TestPreferenceUpdate_Empty(t *testing.T) {
	on := true
	assert.True(t, PreferenceUpdate{}.Empty())
	assert.False(t, PreferenceUpdate{SMS: &on}.Empty())
}

func TestDepositStatus(t *testing.T) {
	assert.False(t, DepositPending.IsTerminal())
	assert.True(t, DepositCompleted.IsTerminal())
	assert.True(t, DepositFailed.IsTerminal())
	assert.True(t, DepositCancelled.IsTerminal())
	assert.True(t, DepositPending.IsActive())
	assert.True(t, DepositCompleted.IsActive())
	assert.False(t, DepositFailed.IsActive())
	assert.True(t, PaymentMethodMansaX.Valid())
	assert.False(t, PaymentMethod("cash").Valid())
}
