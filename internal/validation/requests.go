package validation

import (
	"strings"

	"advance/internal/models"
)

// Deposit validates the optional payment metadata of a submission. The
// payment method itself is checked by the deposit service.
func (v *Validator) Deposit(method models.PaymentMethod, mpesaPhone, notes string) {
	if method == models.PaymentMethodMpesa {
		phone := strings.TrimSpace(mpesaPhone)
		v.Required("mpesa_phone", phone)
		if phone != "" {
			v.Phone("mpesa_phone", phone)
		}
	}
	v.MaxLength("notes", notes, MaxNotesLength)
}

// Rejection validates the reason an administrator gives.
func (v *Validator) Rejection(reason string) {
	v.Required("reason", reason)
	v.MaxLength("reason", reason, MaxReasonLength)
}

// StaffUser validates a staff account before seeding.
func (v *Validator) StaffUser(name, email, phone, password string) {
	v.Required("name", name)
	v.MaxLength("name", name, MaxNameLength)
	v.Email("email", email)
	if phone != "" {
		v.Phone("phone", phone)
	}
	v.Password("password", password)
}
