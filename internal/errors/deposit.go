package errors

const (
	CodeDuplicateMonthlyDeposit = "DUPLICATE_MONTHLY_DEPOSIT"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeInvalidPaymentMethod    = "INVALID_PAYMENT_METHOD"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeDepositNotFound         = "DEPOSIT_NOT_FOUND"
	CodeAccountNotFound         = "ACCOUNT_NOT_FOUND"
	CodeLedgerIntegrity         = "LEDGER_INTEGRITY"
	CodeForbidden               = "FORBIDDEN"
	CodeReasonRequired          = "REASON_REQUIRED"
)

var (
	ErrDuplicateMonthlyDeposit = &DomainError{
		Code:    CodeDuplicateMonthlyDeposit,
		Message: "a deposit for this month already exists",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeInvalidAmount,
		Message: "invalid amount",
	}
	ErrInvalidPaymentMethod = &DomainError{
		Code:    CodeInvalidPaymentMethod,
		Message: "invalid payment method",
	}
	ErrInvalidTransition = &DomainError{
		Code:    CodeInvalidTransition,
		Message: "invalid deposit status transition",
	}
	ErrDepositNotFound = &DomainError{
		Code:    CodeDepositNotFound,
		Message: "deposit not found",
	}
	ErrAccountNotFound = &DomainError{
		Code:    CodeAccountNotFound,
		Message: "account not found",
	}
	// ErrLedgerIntegrity is fatal to the operation; amounts are never clamped.
	ErrLedgerIntegrity = &DomainError{
		Code:    CodeLedgerIntegrity,
		Message: "ledger integrity violation",
	}
	ErrForbidden = &DomainError{
		Code:    CodeForbidden,
		Message: "operation not permitted",
	}
	ErrReasonRequired = &DomainError{
		Code:    CodeReasonRequired,
		Message: "a rejection reason is required",
	}
)
