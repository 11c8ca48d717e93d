package deposit

// Reference format: DEP + yyyymmdd + six uppercase hex characters.
const (
	ReferencePrefix       = "DEP"
	referenceSuffixLength = 6
	maxReferenceAttempts  = 5
)

const (
	SummaryMonths    = 12
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Operation names used for metrics.
const (
	opSubmit  = "submit"
	opApprove = "approve"
	opReject  = "reject"
	opCancel  = "cancel"
)
