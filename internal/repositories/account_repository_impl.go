package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advance/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetOrCreate(ctx context.Context, userID uint, rate decimal.Decimal) (*models.Account, error) {
	account := models.Account{
		UserID:             userID,
		TotalContributions: decimal.Zero,
		InterestEarned:     decimal.Zero,
		InterestRate:       rate,
	}
	// The unique user_id index makes the losing insert a no-op.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&account).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Credit(ctx context.Context, accountID uint, amount, interest decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"total_contributions": gorm.Expr("total_contributions + ?", amount),
			"interest_earned":     gorm.Expr("interest_earned + ?", interest),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to credit account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

type interestRepository struct {
	db *gorm.DB
}

func NewInterestRepository(db *gorm.DB) InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) Create(ctx context.Context, calc *models.InterestCalculation) error {
	if err := r.db.WithContext(ctx).Create(calc).Error; err != nil {
		if uniqueViolation(err) == constraintInterestDeposit {
			return ErrDuplicateInterest
		}
		return fmt.Errorf("failed to record interest: %w", err)
	}
	return nil
}

func (r *interestRepository) GetByDepositID(ctx context.Context, depositID uint) (*models.InterestCalculation, error) {
	var calc models.InterestCalculation
	if err := r.db.WithContext(ctx).Where("deposit_id = ?", depositID).First(&calc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterestCalcNotFound
		}
		return nil, fmt.Errorf("failed to get interest calculation: %w", err)
	}
	return &calc, nil
}

func (r *interestRepository) ListByUser(ctx context.Context, userID uint) ([]models.InterestCalculation, error) {
	var calcs []models.InterestCalculation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("calculation_date DESC, id DESC").
		Find(&calcs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interest calculations: %w", err)
	}
	return calcs, nil
}

func (r *interestRepository) SumByUser(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.InterestCalculation{}).
		Select("COALESCE(SUM(interest_amount), 0)").
		Where("user_id = ?", userID).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum interest: %w", err)
	}
	return sum, nil
}

type ledgerStore struct {
	db *gorm.DB
}

// NewLedgerStore returns the gorm backed LedgerStore.
func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) Deposits() DepositRepository  { return &depositRepository{db: s.db} }
func (s *ledgerStore) Accounts() AccountRepository  { return &accountRepository{db: s.db} }
func (s *ledgerStore) Interest() InterestRepository { return &interestRepository{db: s.db} }

func (s *ledgerStore) ExecuteInTransaction(ctx context.Context, fn func(LedgerStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerStore{db: tx})
	})
}
