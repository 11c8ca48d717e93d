package repositories

import (
	"context"
	"errors"

	"advance/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrDepositNotFound        = errors.New("deposit not found")
	ErrDuplicateReference     = errors.New("transaction reference already exists")
	ErrDuplicateActiveDeposit = errors.New("owner already has an active deposit for this period")
	ErrStaleDeposit           = errors.New("deposit status changed concurrently")
)

// DepositRepository defines the persistence operations for deposits
type DepositRepository interface {
	// Create inserts a deposit. It returns ErrDuplicateReference or
	// ErrDuplicateActiveDeposit when a storage constraint rejects the row.
	Create(ctx context.Context, deposit *models.Deposit) error

	GetByID(ctx context.Context, id uint) (*models.Deposit, error)

	// GetForUpdate reads the deposit and holds a row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uint) (*models.Deposit, error)

	GetByReference(ctx context.Context, reference string) (*models.Deposit, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	ExistsActiveInPeriod(ctx context.Context, userID uint, period string) (bool, error)

	// UpdateStatus persists the transition fields of deposit only if the
	// stored status still equals from; otherwise it returns ErrStaleDeposit.
	UpdateStatus(ctx context.Context, deposit *models.Deposit, from models.DepositStatus) error

	List(ctx context.Context, filter models.DepositFilter) ([]models.Deposit, int64, error)
	SumCompleted(ctx context.Context, userID uint) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, userID uint, fromPeriod string) ([]models.MonthlyTotal, error)
	UserIDsWithActiveInPeriod(ctx context.Context, period string) ([]uint, error)
}
