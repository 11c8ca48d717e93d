package deposit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "advance/internal/errors"
	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/repositories"
	"advance/internal/services/events"
	"advance/internal/services/interest"
	"advance/internal/services/ledger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	store     repositories.LedgerStore
	ledger    ledger.Service
	publisher events.Publisher
	config    Config
	metrics   MetricsCollector
	log       *zap.Logger
}

// NewService creates the deposit service. publisher and metrics may be nil.
func NewService(
	store repositories.LedgerStore,
	ledgerSvc ledger.Service,
	publisher events.Publisher,
	config Config,
	metrics MetricsCollector,
	log *zap.Logger,
) Service {
	if store == nil {
		panic("store is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}

	if config.MonthlyAmount.IsZero() {
		config.MonthlyAmount = decimal.RequireFromString("20000.00")
	}
	if config.DefaultInterestRate.IsZero() {
		config.DefaultInterestRate = decimal.RequireFromString("5.00")
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewReference == nil {
		config.NewReference = NewReference
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &service{
		store:     store,
		ledger:    ledgerSvc,
		publisher: publisher,
		config:    config,
		metrics:   metrics,
		log:       logger.OrNop(log).Named("deposit"),
	}
}

func (s *service) now() time.Time {
	return s.config.Now().In(s.config.Location)
}

func (s *service) SubmitDeposit(ctx context.Context, ownerID uint, req SubmitRequest) (*models.Deposit, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opSubmit, time.Since(start)) }()

	if !req.PaymentMethod.Valid() {
		s.metrics.RecordOperationResult(opSubmit, "invalid_payment_method")
		return nil, apperrors.ErrInvalidPaymentMethod.Wrapf("unsupported payment method %q", req.PaymentMethod)
	}
	amount := s.config.MonthlyAmount
	if !amount.IsPositive() {
		s.metrics.RecordOperationResult(opSubmit, "invalid_amount")
		return nil, apperrors.ErrInvalidAmount.Wrapf("monthly amount %s must be positive", amount)
	}

	now := s.now()
	period := interest.Period(now)

	exists, err := s.store.Deposits().ExistsActiveInPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check monthly deposit: %w", err)
	}
	if exists {
		s.metrics.RecordOperationResult(opSubmit, "duplicate")
		return nil, apperrors.ErrDuplicateMonthlyDeposit.Wrapf("a deposit for %s already exists", now.Format("January 2006"))
	}

	d := &models.Deposit{
		UserID:        ownerID,
		Period:        period,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		MpesaPhone:    strings.TrimSpace(req.MpesaPhone),
		Notes:         strings.TrimSpace(req.Notes),
		Status:        models.DepositPending,
	}
	if err := s.create(ctx, d, now); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateMonthlyDeposit) {
			s.metrics.RecordOperationResult(opSubmit, "duplicate")
		}
		return nil, err
	}

	s.log.Info("deposit submitted",
		zap.Uint("deposit_id", d.ID),
		zap.Uint("user_id", ownerID),
		zap.String("reference", d.TransactionReference),
		zap.String("period", period),
	)
	s.metrics.RecordOperationResult(opSubmit, "success")
	s.publisher.Publish(ctx, events.NewEvent(events.DepositCreated, *d, ownerID, ""))
	return d, nil
}

// create inserts d with a fresh reference, regenerating it on collision.
func (s *service) create(ctx context.Context, d *models.Deposit, now time.Time) error {
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		ref := s.config.NewReference(now)

		taken, err := s.store.Deposits().ReferenceExists(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to check reference: %w", err)
		}
		if taken {
			s.log.Debug("reference collision, regenerating", zap.String("reference", ref), zap.Int("attempt", attempt))
			continue
		}

		d.TransactionReference = ref
		err = s.store.Deposits().Create(ctx, d)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repositories.ErrDuplicateReference):
			s.log.Debug("reference collision on insert, regenerating", zap.String("reference", ref), zap.Int("attempt", attempt))
			continue
		case errors.Is(err, repositories.ErrDuplicateActiveDeposit):
			// Lost the race against a concurrent submission for the same month.
			return apperrors.ErrDuplicateMonthlyDeposit.Wrap(err)
		default:
			return fmt.Errorf("failed to create deposit: %w", err)
		}
	}
	return fmt.Errorf("failed to generate a unique transaction reference after %d attempts", maxReferenceAttempts)
}

func (s *service) ApproveDeposit(ctx context.Context, depositID, approverID uint) (*models.Deposit, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opApprove, time.Since(start)) }()

	var (
		approved models.Deposit
		accrued  decimal.Decimal
	)
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		d, err := s.lockPending(ctx, tx, depositID)
		if err != nil {
			return err
		}

		now := s.now()
		d.Status = models.DepositCompleted
		d.ApprovedBy = &approverID
		d.ApprovedAt = &now

		account, err := tx.Accounts().GetOrCreate(ctx, d.UserID, s.config.DefaultInterestRate)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}

		accrual := interest.Accrue(d.Amount, account.InterestRate, now)
		calc := &models.InterestCalculation{
			UserID:          d.UserID,
			AccountID:       account.ID,
			DepositID:       d.ID,
			Principal:       d.Amount,
			Rate:            account.InterestRate,
			InterestAmount:  accrual.Interest,
			CalculationDate: now,
			PeriodStart:     accrual.PeriodStart,
			PeriodEnd:       accrual.PeriodEnd,
		}
		if err := tx.Interest().Create(ctx, calc); err != nil {
			if errors.Is(err, repositories.ErrDuplicateInterest) {
				return apperrors.ErrInvalidTransition.Wrapf("interest already calculated for deposit %d", d.ID)
			}
			return fmt.Errorf("failed to record interest calculation: %w", err)
		}
		d.InterestCalculationID = &calc.ID

		if err := s.transition(ctx, tx, d); err != nil {
			return err
		}
		if err := s.ledger.Credit(ctx, tx, account.ID, d.Amount, accrual.Interest); err != nil {
			return err
		}

		approved = *d
		accrued = accrual.Interest
		return nil
	})
	if err != nil {
		s.recordFailure(opApprove, err)
		s.log.Warn("deposit approval failed", zap.Uint("deposit_id", depositID), zap.Uint("approver_id", approverID), zap.Error(err))
		return nil, err
	}

	s.ledger.InvalidateAccount(ctx, approved.UserID)
	s.log.Info("deposit approved",
		zap.Uint("deposit_id", approved.ID),
		zap.Uint("user_id", approved.UserID),
		zap.Uint("approver_id", approverID),
		zap.String("amount", approved.Amount.StringFixed(2)),
		zap.String("interest", accrued.StringFixed(2)),
	)
	s.metrics.RecordOperationResult(opApprove, "success")
	s.metrics.RecordLedgerCredit(approved.Amount, accrued)
	s.publisher.Publish(ctx, events.NewEvent(events.DepositApproved, approved, approverID, ""))
	return &approved, nil
}

func (s *service) RejectDeposit(ctx context.Context, depositID, rejectorID uint, reason string) (*models.Deposit, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opReject, time.Since(start)) }()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		s.metrics.RecordOperationResult(opReject, "invalid_reason")
		return nil, apperrors.ErrReasonRequired
	}

	var rejected models.Deposit
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		d, err := s.lockPending(ctx, tx, depositID)
		if err != nil {
			return err
		}
		now := s.now()
		d.Status = models.DepositFailed
		d.RejectedBy = &rejectorID
		d.RejectedAt = &now
		d.RejectionReason = reason
		if err := s.transition(ctx, tx, d); err != nil {
			return err
		}
		rejected = *d
		return nil
	})
	if err != nil {
		s.recordFailure(opReject, err)
		return nil, err
	}

	s.log.Info("deposit rejected",
		zap.Uint("deposit_id", rejected.ID),
		zap.Uint("user_id", rejected.UserID),
		zap.Uint("rejector_id", rejectorID),
		zap.String("reason", reason),
	)
	s.metrics.RecordOperationResult(opReject, "success")
	s.publisher.Publish(ctx, events.NewEvent(events.DepositRejected, rejected, rejectorID, reason))
	return &rejected, nil
}

func (s *service) CancelDeposit(ctx context.Context, depositID, ownerID uint) (*models.Deposit, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opCancel, time.Since(start)) }()

	var cancelled models.Deposit
	err := s.store.ExecuteInTransaction(ctx, func(tx repositories.LedgerStore) error {
		d, err := s.lockPending(ctx, tx, depositID)
		if err != nil {
			return err
		}
		if d.UserID != ownerID {
			return apperrors.ErrForbidden.Wrapf("deposit %d belongs to another member", depositID)
		}
		now := s.now()
		d.Status = models.DepositCancelled
		d.CancelledAt = &now
		if err := s.transition(ctx, tx, d); err != nil {
			return err
		}
		cancelled = *d
		return nil
	})
	if err != nil {
		s.recordFailure(opCancel, err)
		return nil, err
	}

	s.log.Info("deposit cancelled", zap.Uint("deposit_id", cancelled.ID), zap.Uint("user_id", ownerID))
	s.metrics.RecordOperationResult(opCancel, "success")
	s.publisher.Publish(ctx, events.NewEvent(events.DepositCancelled, cancelled, ownerID, ""))
	return &cancelled, nil
}

// lockPending reads the deposit under a row lock and requires it to be pending.
func (s *service) lockPending(ctx context.Context, tx repositories.LedgerStore, depositID uint) (*models.Deposit, error) {
	d, err := tx.Deposits().GetForUpdate(ctx, depositID)
	if err != nil {
		if errors.Is(err, repositories.ErrDepositNotFound) {
			return nil, apperrors.ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to load deposit: %w", err)
	}
	if d.Status != models.DepositPending {
		return nil, apperrors.ErrInvalidTransition.Wrapf("deposit %d is already %s", d.ID, d.Status)
	}
	return d, nil
}

// transition persists d's new status only if the stored row is still pending.
func (s *service) transition(ctx context.Context, tx repositories.LedgerStore, d *models.Deposit) error {
	if err := tx.Deposits().UpdateStatus(ctx, d, models.DepositPending); err != nil {
		if errors.Is(err, repositories.ErrStaleDeposit) {
			return apperrors.ErrInvalidTransition.Wrapf("deposit %d changed concurrently", d.ID)
		}
		return fmt.Errorf("failed to update deposit status: %w", err)
	}
	return nil
}

func (s *service) recordFailure(op string, err error) {
	result := "error"
	switch {
	case errors.Is(err, apperrors.ErrInvalidTransition):
		result = "invalid_transition"
	case errors.Is(err, apperrors.ErrDepositNotFound):
		result = "not_found"
	case errors.Is(err, apperrors.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, apperrors.ErrLedgerIntegrity):
		result = "ledger_integrity"
	}
	s.metrics.RecordOperationResult(op, result)
}

func (s *service) GetDeposit(ctx context.Context, depositID uint) (*models.Deposit, error) {
	d, err := s.store.Deposits().GetByID(ctx, depositID)
	if err != nil {
		if errors.Is(err, repositories.ErrDepositNotFound) {
			return nil, apperrors.ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return d, nil
}

func (s *service) ListDeposits(ctx context.Context, filter models.DepositFilter) ([]models.Deposit, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	deposits, total, err := s.store.Deposits().List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deposits: %w", err)
	}
	return deposits, total, nil
}

// PendingApprovals returns every pending deposit, oldest first.
func (s *service) PendingApprovals(ctx context.Context) ([]models.Deposit, error) {
	deposits, _, err := s.store.Deposits().List(ctx, models.DepositFilter{Status: models.DepositPending})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending deposits: %w", err)
	}
	for i, j := 0, len(deposits)-1; i < j; i, j = i+1, j-1 {
		deposits[i], deposits[j] = deposits[j], deposits[i]
	}
	return deposits, nil
}

func (s *service) CanDeposit(ctx context.Context, ownerID uint) (*Eligibility, error) {
	now := s.now()
	period := interest.Period(now)
	month := now.Format("January 2006")

	exists, err := s.store.Deposits().ExistsActiveInPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check monthly deposit: %w", err)
	}

	e := &Eligibility{CanDeposit: !exists, Period: period, Amount: s.config.MonthlyAmount}
	if exists {
		e.Message = fmt.Sprintf("You have already made a deposit for %s", month)
	} else {
		e.Message = fmt.Sprintf("You can make a deposit for %s", month)
	}
	return e, nil
}

// MonthlySummary returns completed totals for the last twelve months, oldest
// first, with zero rows for months without deposits.
func (s *service) MonthlySummary(ctx context.Context, ownerID uint) ([]models.MonthlyTotal, error) {
	first := interest.MonthStart(s.now()).AddDate(0, -(SummaryMonths - 1), 0)

	rows, err := s.store.Deposits().MonthlyTotals(ctx, ownerID, interest.Period(first))
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}
	byPeriod := make(map[string]models.MonthlyTotal, len(rows))
	for _, r := range rows {
		byPeriod[r.Period] = r
	}

	out := make([]models.MonthlyTotal, 0, SummaryMonths)
	for i := 0; i < SummaryMonths; i++ {
		period := interest.Period(first.AddDate(0, i, 0))
		if r, ok := byPeriod[period]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, models.MonthlyTotal{Period: period, Total: decimal.Zero})
	}
	return out, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.Event) {}
