/*
Package deposit implements the deposit state machine of the contribution
scheme.

Every deposit starts pending and moves exactly once into a terminal state:

	pending -> completed   ApproveDeposit (credits the ledger)
	pending -> failed      RejectDeposit
	pending -> cancelled   CancelDeposit (owner only)

Approval runs as one ledger transaction: the deposit row is locked, its
status is changed conditionally, an interest calculation is appended and the
owner's account is credited. Either all of it commits or none of it does.

Only one pending or completed deposit may exist per owner per calendar month.
The month is evaluated in the configured location and enforced both by a
pre-check and by a partial unique index in storage.

Usage:

	svc := deposit.NewService(store, ledgerSvc, bus, deposit.Config{
	    MonthlyAmount:       decimal.RequireFromString("20000.00"),
	    DefaultInterestRate: decimal.RequireFromString("5.00"),
	    Location:            nairobi,
	}, metrics, log)

	d, err := svc.SubmitDeposit(ctx, userID, deposit.SubmitRequest{
	    PaymentMethod: models.PaymentMethodMpesa,
	})

	d, err = svc.ApproveDeposit(ctx, d.ID, adminID)

Events are published only after the owning transaction has committed.

Error Handling:

  - ErrDuplicateMonthlyDeposit: the month already has an active deposit
  - ErrInvalidTransition: the deposit is no longer pending
  - ErrDepositNotFound: unknown deposit id
  - ErrInvalidPaymentMethod, ErrInvalidAmount, ErrReasonRequired: bad input
*/
package deposit
