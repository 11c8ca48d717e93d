package deposit

import (
	"context"

	"advance/internal/models"
)

// Service defines the deposit lifecycle operations
type Service interface {
	// State transitions
	SubmitDeposit(ctx context.Context, ownerID uint, req SubmitRequest) (*models.Deposit, error)
	ApproveDeposit(ctx context.Context, depositID, approverID uint) (*models.Deposit, error)
	RejectDeposit(ctx context.Context, depositID, rejectorID uint, reason string) (*models.Deposit, error)
	CancelDeposit(ctx context.Context, depositID, ownerID uint) (*models.Deposit, error)

	// Queries
	GetDeposit(ctx context.Context, depositID uint) (*models.Deposit, error)
	ListDeposits(ctx context.Context, filter models.DepositFilter) ([]models.Deposit, int64, error)
	PendingApprovals(ctx context.Context) ([]models.Deposit, error)
	CanDeposit(ctx context.Context, ownerID uint) (*Eligibility, error)
	MonthlySummary(ctx context.Context, ownerID uint) ([]models.MonthlyTotal, error)
}
