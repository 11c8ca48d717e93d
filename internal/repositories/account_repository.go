package repositories

import (
	"context"
	"errors"

	"advance/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrDuplicateInterest    = errors.New("interest already calculated for deposit")
	ErrInterestCalcNotFound = errors.New("interest calculation not found")
)

// AccountRepository defines the persistence operations for member accounts
type AccountRepository interface {
	// GetOrCreate returns the owner's account, creating it with rate when it
	// does not exist. Concurrent first calls yield a single row.
	GetOrCreate(ctx context.Context, userID uint, rate decimal.Decimal) (*models.Account, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Account, error)

	// Credit atomically adds amount and interest to the account's totals.
	Credit(ctx context.Context, accountID uint, amount, interest decimal.Decimal) error
}

// InterestRepository stores the append-only interest audit trail
type InterestRepository interface {
	Create(ctx context.Context, calc *models.InterestCalculation) error
	GetByDepositID(ctx context.Context, depositID uint) (*models.InterestCalculation, error)
	ListByUser(ctx context.Context, userID uint) ([]models.InterestCalculation, error)
	SumByUser(ctx context.Context, userID uint) (decimal.Decimal, error)
}

// LedgerStore groups the repositories that take part in the approval unit.
type LedgerStore interface {
	Deposits() DepositRepository
	Accounts() AccountRepository
	Interest() InterestRepository

	// ExecuteInTransaction runs fn against a transactional view of the store.
	// Every write made through that view commits together or not at all.
	ExecuteInTransaction(ctx context.Context, fn func(tx LedgerStore) error) error
}
