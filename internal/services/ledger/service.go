// Package ledger maintains the per-member account totals. Contributions and
// interest only ever grow, and only through Credit inside a deposit approval.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "advance/internal/errors"
	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	store  repositories.LedgerStore
	cache  AccountCache
	config Config
	log    *zap.Logger

	// generations counts invalidations per user, so a read that raced a
	// credit does not leave its stale copy in the cache.
	genMu       sync.Mutex
	generations map[uint]uint64
}

// NewService creates the ledger service. cache may be nil.
func NewService(store repositories.LedgerStore, cache AccountCache, config Config, log *zap.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		cache = noopCache{}
	}
	if config.DefaultInterestRate.IsZero() {
		config.DefaultInterestRate = decimal.RequireFromString("5.00")
	}
	return &service{
		store:  store,
		cache:  cache,
		config: config,
		log:    logger.OrNop(log).Named("ledger"),

		generations: make(map[uint]uint64),
	}
}

func (s *service) generation(userID uint) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[userID]
}

func (s *service) bumpGeneration(userID uint) {
	s.genMu.Lock()
	s.generations[userID]++
	s.genMu.Unlock()
}

func (s *service) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	if account, err := s.cache.GetAccount(ctx, userID); err == nil && account != nil {
		return account, nil
	}

	gen := s.generation(userID)
	account, err := s.store.Accounts().GetOrCreate(ctx, userID, s.config.DefaultInterestRate)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := s.cache.CacheAccount(ctx, account); err != nil {
		s.log.Warn("failed to cache account", zap.Uint("user_id", userID), zap.Error(err))
		return account, nil
	}
	if s.generation(userID) != gen {
		// A credit committed while we were reading; drop what we cached.
		if err := s.cache.InvalidateAccount(ctx, userID); err != nil {
			s.log.Warn("failed to invalidate account cache", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return account, nil
}

func (s *service) Credit(ctx context.Context, tx repositories.LedgerStore, accountID uint, amount, interest decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrLedgerIntegrity.Wrapf("credit amount %s must be positive", amount)
	}
	if interest.IsNegative() {
		return apperrors.ErrLedgerIntegrity.Wrapf("interest %s must not be negative", interest)
	}

	if err := tx.Accounts().Credit(ctx, accountID, amount, interest); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return apperrors.ErrAccountNotFound
		}
		return fmt.Errorf("failed to credit account: %w", err)
	}
	return nil
}

func (s *service) ListInterestCalculations(ctx context.Context, userID uint) ([]models.InterestCalculation, error) {
	calcs, err := s.store.Interest().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interest calculations: %w", err)
	}
	return calcs, nil
}

func (s *service) Reconcile(ctx context.Context, userID uint) (*Reconciliation, error) {
	account, err := s.store.Accounts().GetOrCreate(ctx, userID, s.config.DefaultInterestRate)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	contributions, err := s.store.Deposits().SumCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	interest, err := s.store.Interest().SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec := &Reconciliation{
		UserID:                userID,
		AccountID:             account.ID,
		RecordedContributions: account.TotalContributions,
		ExpectedContributions: contributions,
		RecordedInterest:      account.InterestEarned,
		ExpectedInterest:      interest,
	}
	rec.Balanced = rec.RecordedContributions.Equal(rec.ExpectedContributions) &&
		rec.RecordedInterest.Equal(rec.ExpectedInterest)

	if !rec.Balanced {
		s.log.Error("ledger drift detected",
			zap.Uint("user_id", userID),
			zap.String("recorded_contributions", rec.RecordedContributions.String()),
			zap.String("expected_contributions", rec.ExpectedContributions.String()),
			zap.String("recorded_interest", rec.RecordedInterest.String()),
			zap.String("expected_interest", rec.ExpectedInterest.String()),
		)
	}
	return rec, nil
}

func (s *service) InvalidateAccount(ctx context.Context, userID uint) {
	s.bumpGeneration(userID)
	if err := s.cache.InvalidateAccount(ctx, userID); err != nil {
		s.log.Warn("failed to invalidate account cache", zap.Uint("user_id", userID), zap.Error(err))
	}
}

type noopCache struct{}

func (noopCache) GetAccount(context.Context, uint) (*models.Account, error) { return nil, nil }
func (noopCache) CacheAccount(context.Context, *models.Account) error      { return nil }
func (noopCache) InvalidateAccount(context.Context, uint) error            { return nil }
