package errors

const (
	CodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
	CodeNotificationUnread   = "NOTIFICATION_UNREAD"
	CodeInvalidPreference    = "INVALID_PREFERENCE"
	CodeUserNotFound         = "USER_NOT_FOUND"
)

var (
	ErrNotificationNotFound = &DomainError{
		Code:    CodeNotificationNotFound,
		Message: "notification not found",
	}
	ErrNotificationUnread = &DomainError{
		Code:    CodeNotificationUnread,
		Message: "only read notifications can be deleted",
	}
	ErrInvalidPreference = &DomainError{
		Code:    CodeInvalidPreference,
		Message: "invalid notification preference",
	}
	ErrUserNotFound = &DomainError{
		Code:    CodeUserNotFound,
		Message: "user not found",
	}
)
