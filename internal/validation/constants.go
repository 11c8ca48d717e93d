package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNotesLength  = 500
	MaxNameLength   = 100
	MaxReasonLength = 500
)
