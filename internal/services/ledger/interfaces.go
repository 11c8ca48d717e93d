package ledger

import (
	"context"

	"advance/internal/models"
	"advance/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service owns member account balances.
type Service interface {
	// GetAccount returns the owner's account, creating it on first access.
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)

	// Credit is the only mutation of account totals. It must be called with
	// the transactional store of the approval that produced the credit.
	Credit(ctx context.Context, tx repositories.LedgerStore, accountID uint, amount, interest decimal.Decimal) error

	ListInterestCalculations(ctx context.Context, userID uint) ([]models.InterestCalculation, error)

	// Reconcile recomputes the totals from the deposit and interest records
	// and reports any drift. It never modifies the account.
	Reconcile(ctx context.Context, userID uint) (*Reconciliation, error)

	InvalidateAccount(ctx context.Context, userID uint)
}

// AccountCache is satisfied by the Redis cache service.
type AccountCache interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
	CacheAccount(ctx context.Context, account *models.Account) error
	InvalidateAccount(ctx context.Context, userID uint) error
}
