package models

import "time"

// NotificationPreference holds per-channel and per-category switches. Rows are
// always built from DefaultPreference so that every flag is written explicitly.
type NotificationPreference struct {
	ID                       uint      `gorm:"primaryKey" json:"-"`
	UserID                   uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	InApp                    bool      `gorm:"not null" json:"in_app"`
	Email                    bool      `gorm:"not null" json:"email"`
	SMS                      bool      `gorm:"not null" json:"sms"`
	DepositNotifications     bool      `gorm:"not null" json:"deposit_notifications"`
	ApplicationNotifications bool      `gorm:"not null" json:"application_notifications"`
	DocumentNotifications    bool      `gorm:"not null" json:"document_notifications"`
	BeneficiaryNotifications bool      `gorm:"not null" json:"beneficiary_notifications"`
	MonthlyReports           bool      `gorm:"not null" json:"monthly_reports"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// DefaultPreference enables every channel and category.
func DefaultPreference(userID uint) NotificationPreference {
	return NotificationPreference{
		UserID:                   userID,
		InApp:                    true,
		Email:                    true,
		SMS:                      true,
		DepositNotifications:     true,
		ApplicationNotifications: true,
		DocumentNotifications:    true,
		BeneficiaryNotifications: true,
		MonthlyReports:           true,
	}
}

func (p *NotificationPreference) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelInApp:
		return p.InApp
	case ChannelEmail:
		return p.Email
	case ChannelSMS:
		return p.SMS
	}
	return false
}

// CategoryEnabled reports the category switch. System notices have none.
func (p *NotificationPreference) CategoryEnabled(cat Category) bool {
	switch cat {
	case CategoryDeposit:
		return p.DepositNotifications
	case CategoryApplication:
		return p.ApplicationNotifications
	case CategoryDocument:
		return p.DocumentNotifications
	case CategoryBeneficiary:
		return p.BeneficiaryNotifications
	case CategoryMonthlyReport:
		return p.MonthlyReports
	}
	return true
}

func (p *NotificationPreference) Allows(cat Category, ch Channel) bool {
	return p.ChannelEnabled(ch) && p.CategoryEnabled(cat)
}

// PreferenceUpdate is a partial update; nil fields are left unchanged.
type PreferenceUpdate struct {
	InApp                    *bool `json:"in_app"`
	Email                    *bool `json:"email"`
	SMS                      *bool `json:"sms"`
	DepositNotifications     *bool `json:"deposit_notifications"`
	ApplicationNotifications *bool `json:"application_notifications"`
	DocumentNotifications    *bool `json:"document_notifications"`
	BeneficiaryNotifications *bool `json:"beneficiary_notifications"`
	MonthlyReports           *bool `json:"monthly_reports"`
}

func (u PreferenceUpdate) Empty() bool {
	return u.InApp == nil && u.Email == nil && u.SMS == nil &&
		u.DepositNotifications == nil && u.ApplicationNotifications == nil &&
		u.DocumentNotifications == nil && u.BeneficiaryNotifications == nil &&
		u.MonthlyReports == nil
}

func (u PreferenceUpdate) Apply(p *NotificationPreference) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.InApp, u.InApp)
	set(&p.Email, u.Email)
	set(&p.SMS, u.SMS)
	set(&p.DepositNotifications, u.DepositNotifications)
	set(&p.ApplicationNotifications, u.ApplicationNotifications)
	set(&p.DocumentNotifications, u.DocumentNotifications)
	set(&p.BeneficiaryNotifications, u.BeneficiaryNotifications)
	set(&p.MonthlyReports, u.MonthlyReports)
}
