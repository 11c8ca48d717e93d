package memory

import (
	"context"
	"sort"

	"advance/internal/models"
	"advance/internal/repositories"

	"github.com/shopspring/decimal"
)

type depositRepo struct{ v *view }

func (r *depositRepo) Create(_ context.Context, d *models.Deposit) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.deposits {
			if existing.TransactionReference == d.TransactionReference {
				return repositories.ErrDuplicateReference
			}
			if d.Status.IsActive() && existing.Status.IsActive() &&
				existing.UserID == d.UserID && existing.Period == d.Period {
				return repositories.ErrDuplicateActiveDeposit
			}
		}
		st.nextDeposit++
		d.ID = st.nextDeposit
		now := r.v.s.now()
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		d.UpdatedAt = now
		st.deposits[d.ID] = *d
		return nil
	})
}

func (r *depositRepo) GetByID(_ context.Context, id uint) (*models.Deposit, error) {
	var out *models.Deposit
	err := r.v.do(func(st *state) error {
		d, ok := st.deposits[id]
		if !ok {
			return repositories.ErrDepositNotFound
		}
		out = &d
		return nil
	})
	return out, err
}

// GetForUpdate needs no extra locking: transactions already hold the store mutex.
func (r *depositRepo) GetForUpdate(ctx context.Context, id uint) (*models.Deposit, error) {
	return r.GetByID(ctx, id)
}

func (r *depositRepo) GetByReference(_ context.Context, reference string) (*models.Deposit, error) {
	var out *models.Deposit
	err := r.v.do(func(st *state) error {
		for _, d := range st.deposits {
			if d.TransactionReference == reference {
				d := d
				out = &d
				return nil
			}
		}
		return repositories.ErrDepositNotFound
	})
	return out, err
}

func (r *depositRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	_, err := r.GetByReference(ctx, reference)
	if err == repositories.ErrDepositNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *depositRepo) ExistsActiveInPeriod(_ context.Context, userID uint, period string) (bool, error) {
	found := false
	err := r.v.do(func(st *state) error {
		for _, d := range st.deposits {
			if d.UserID == userID && d.Period == period && d.Status.IsActive() {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *depositRepo) UpdateStatus(_ context.Context, d *models.Deposit, from models.DepositStatus) error {
	return r.v.do(func(st *state) error {
		current, ok := st.deposits[d.ID]
		if !ok || current.Status != from {
			return repositories.ErrStaleDeposit
		}
		current.Status = d.Status
		current.InterestCalculationID = d.InterestCalculationID
		current.ApprovedBy = d.ApprovedBy
		current.ApprovedAt = d.ApprovedAt
		current.RejectedBy = d.RejectedBy
		current.RejectedAt = d.RejectedAt
		current.RejectionReason = d.RejectionReason
		current.CancelledAt = d.CancelledAt
		current.UpdatedAt = r.v.s.now()
		d.UpdatedAt = current.UpdatedAt
		st.deposits[d.ID] = current
		return nil
	})
}

func (r *depositRepo) List(_ context.Context, filter models.DepositFilter) ([]models.Deposit, int64, error) {
	var out []models.Deposit
	err := r.v.do(func(st *state) error {
		for _, d := range st.deposits {
			if filter.UserID != 0 && d.UserID != filter.UserID {
				continue
			}
			if filter.Status != "" && d.Status != filter.Status {
				continue
			}
			out = append(out, d)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	return page(out, filter.Limit, filter.Offset), total, err
}

func (r *depositRepo) SumCompleted(_ context.Context, userID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.do(func(st *state) error {
		for _, d := range st.deposits {
			if d.UserID == userID && d.Status == models.DepositCompleted {
				sum = sum.Add(d.Amount)
			}
		}
		return nil
	})
	return sum, err
}

func (r *depositRepo) MonthlyTotals(_ context.Context, userID uint, fromPeriod string) ([]models.MonthlyTotal, error) {
	byPeriod := make(map[string]*models.MonthlyTotal)
	err := r.v.do(func(st *state) error {
		for _, d := range st.deposits {
			if d.UserID != userID || d.Status != models.DepositCompleted || d.Period < fromPeriod {
				continue
			}
			row, ok := byPeriod[d.Period]
			if !ok {
				row = &models.MonthlyTotal{Period: d.Period, Total: decimal.Zero}
				byPeriod[d.Period] = row
			}
			row.Total = row.Total.Add(d.Amount)
			row.Count++
		}
		return nil
	})
	out := make([]models.MonthlyTotal, 0, len(byPeriod))
	for _, row := range byPeriod {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, err
}

func (r *depositRepo) UserIDsWithActiveInPeriod(_ context.Context, period string) ([]uint, error) {
	seen := make(map[uint]struct{})
	err := r.v.do(func(st *state) error {
		for _, d := range st.deposits {
			if d.Period == period && d.Status.IsActive() {
				seen[d.UserID] = struct{}{}
			}
		}
		return nil
	})
	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, err
}

type accountRepo struct{ v *view }

func (r *accountRepo) GetOrCreate(_ context.Context, userID uint, rate decimal.Decimal) (*models.Account, error) {
	var out *models.Account
	err := r.v.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID {
				a := a
				out = &a
				return nil
			}
		}
		st.nextAccount++
		now := r.v.s.now()
		a := models.Account{
			ID:                 st.nextAccount,
			UserID:             userID,
			TotalContributions: decimal.Zero,
			InterestEarned:     decimal.Zero,
			InterestRate:       rate,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		st.accounts[a.ID] = a
		out = &a
		return nil
	})
	return out, err
}

func (r *accountRepo) GetByUserID(_ context.Context, userID uint) (*models.Account, error) {
	var out *models.Account
	err := r.v.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID {
				a := a
				out = &a
				return nil
			}
		}
		return repositories.ErrAccountNotFound
	})
	return out, err
}

func (r *accountRepo) Credit(_ context.Context, accountID uint, amount, interest decimal.Decimal) error {
	return r.v.do(func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		a.TotalContributions = a.TotalContributions.Add(amount)
		a.InterestEarned = a.InterestEarned.Add(interest)
		a.UpdatedAt = r.v.s.now()
		st.accounts[accountID] = a
		return nil
	})
}

type interestRepo struct{ v *view }

func (r *interestRepo) Create(_ context.Context, c *models.InterestCalculation) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.interest {
			if existing.DepositID == c.DepositID {
				return repositories.ErrDuplicateInterest
			}
		}
		st.nextInterest++
		c.ID = st.nextInterest
		c.CreatedAt = r.v.s.now()
		st.interest[c.ID] = *c
		return nil
	})
}

func (r *interestRepo) GetByDepositID(_ context.Context, depositID uint) (*models.InterestCalculation, error) {
	var out *models.InterestCalculation
	err := r.v.do(func(st *state) error {
		for _, c := range st.interest {
			if c.DepositID == depositID {
				c := c
				out = &c
				return nil
			}
		}
		return repositories.ErrInterestCalcNotFound
	})
	return out, err
}

func (r *interestRepo) ListByUser(_ context.Context, userID uint) ([]models.InterestCalculation, error) {
	var out []models.InterestCalculation
	err := r.v.do(func(st *state) error {
		for _, c := range st.interest {
			if c.UserID == userID {
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CalculationDate.Equal(out[j].CalculationDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].CalculationDate.After(out[j].CalculationDate)
	})
	return out, err
}

func (r *interestRepo) SumByUser(_ context.Context, userID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.v.do(func(st *state) error {
		for _, c := range st.interest {
			if c.UserID == userID {
				sum = sum.Add(c.InterestAmount)
			}
		}
		return nil
	})
	return sum, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
