package validation

import (
	"strings"
	"testing"

	"advance/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeposit(t *testing.T) {
	tests := []struct {
		name       string
		method     models.PaymentMethod
		phone      string
		notes      string
		wantFields []string
	}{
		{name: "mpesa with phone", method: models.PaymentMethodMpesa, phone: "+254712345678"},
		{name: "mpesa without phone", method: models.PaymentMethodMpesa, wantFields: []string{"mpesa_phone"}},
		{name: "mpesa with short phone", method: models.PaymentMethodMpesa, phone: "0712", wantFields: []string{"mpesa_phone"}},
		{name: "bank needs no phone", method: models.PaymentMethodBank},
		{name: "notes too long", method: models.PaymentMethodBank, notes: strings.Repeat("n", MaxNotesLength+1), wantFields: []string{"notes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Deposit(tt.method, tt.phone, tt.notes)

			assert.Equal(t, len(tt.wantFields) == 0, v.Valid())
			for _, f := range tt.wantFields {
				assert.Contains(t, v.Errors, f)
			}
		})
	}
}

func TestRejection(t *testing.T) {
	v := New()
	v.Rejection("   ")
	assert.False(t, v.Valid())
	assert.Equal(t, "reason: must not be empty", v.Error())

	v = New()
	v.Rejection("Payment not received")
	assert.True(t, v.Valid())
}

func TestStaffUser(t *testing.T) {
	v := New()
	v.StaffUser("Jane Admin", "jane@advance.co.ke", "+254700000001", "Str0ngPass")
	assert.True(t, v.Valid(), v.Error())

	v = New()
	v.StaffUser("", "not-an-email", "12", "weak")
	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "name")
	assert.Contains(t, v.Errors, "email")
	assert.Contains(t, v.Errors, "phone")
	assert.Equal(t, "must be at least 8 characters long", v.Errors["password"])
}

func TestErrorIsSorted(t *testing.T) {
	v := New()
	v.AddError("b", "second")
	v.AddError("a", "first")
	v.AddError("a", "ignored")

	assert.Equal(t, "a: first; b: second", v.Error())
}
