package repositories

import (
	"context"
	"errors"
	"fmt"

	"advance/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeStatuses = []models.DepositStatus{models.DepositPending, models.DepositCompleted}

type depositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) DepositRepository {
	return &depositRepository{db: db}
}

func (r *depositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	if err := r.db.WithContext(ctx).Create(deposit).Error; err != nil {
		if terr := translateDepositError(err); terr != err {
			return terr
		}
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (r *depositRepository) GetByID(ctx context.Context, id uint) (*models.Deposit, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *depositRepository) GetForUpdate(ctx context.Context, id uint) (*models.Deposit, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *depositRepository) GetByReference(ctx context.Context, reference string) (*models.Deposit, error) {
	return r.first(r.db.WithContext(ctx), "transaction_reference = ?", reference)
}

func (r *depositRepository) first(q *gorm.DB, query string, arg interface{}) (*models.Deposit, error) {
	var deposit models.Deposit
	if err := q.Where(query, arg).First(&deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return &deposit, nil
}

func (r *depositRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("transaction_reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check reference: %w", err)
	}
	return count > 0, nil
}

func (r *depositRepository) ExistsActiveInPeriod(ctx context.Context, userID uint, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("user_id = ? AND period = ? AND status IN ?", userID, period, activeStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check monthly deposit: %w", err)
	}
	return count > 0, nil
}

func (r *depositRepository) UpdateStatus(ctx context.Context, deposit *models.Deposit, from models.DepositStatus) error {
	result := r.db.WithContext(ctx).Model(deposit).
		Where("status = ?", from).
		Select(
			"status", "interest_calculation_id",
			"approved_by", "approved_at",
			"rejected_by", "rejected_at", "rejection_reason",
			"cancelled_at", "updated_at",
		).
		Updates(deposit)
	if result.Error != nil {
		if terr := translateDepositError(result.Error); terr != result.Error {
			return terr
		}
		return fmt.Errorf("failed to update deposit status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleDeposit
	}
	return nil
}

func (r *depositRepository) List(ctx context.Context, filter models.DepositFilter) ([]models.Deposit, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Deposit{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deposits: %w", err)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var deposits []models.Deposit
	if err := q.Order("created_at DESC, id DESC").Find(&deposits).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list deposits: %w", err)
	}
	return deposits, total, nil
}

func (r *depositRepository) SumCompleted(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, models.DepositCompleted).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum deposits: %w", err)
	}
	return sum, nil
}

func (r *depositRepository) MonthlyTotals(ctx context.Context, userID uint, fromPeriod string) ([]models.MonthlyTotal, error) {
	var rows []models.MonthlyTotal
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Select("period, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND status = ? AND period >= ?", userID, models.DepositCompleted, fromPeriod).
		Group("period").
		Order("period DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise deposits: %w", err)
	}
	return rows, nil
}

func (r *depositRepository) UserIDsWithActiveInPeriod(ctx context.Context, period string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("period = ? AND status IN ?", period, activeStatuses).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list depositors: %w", err)
	}
	return ids, nil
}
