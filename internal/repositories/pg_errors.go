package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"

	constraintDepositReference    = "idx_deposits_reference"
	constraintDepositPeriodActive = "idx_deposits_user_period_active"
	constraintInterestDeposit     = "idx_interest_calculations_deposit_id"
	constraintUserEmail           = "idx_users_email"
)

// uniqueViolation returns the violated constraint name, or "" when err is
// not a postgres unique violation.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

func translateDepositError(err error) error {
	switch uniqueViolation(err) {
	case constraintDepositReference:
		return ErrDuplicateReference
	case constraintDepositPeriodActive:
		return ErrDuplicateActiveDeposit
	}
	return err
}
