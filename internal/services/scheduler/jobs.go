// Package scheduler runs the periodic member notices: the monthly statement
// and the contribution reminder.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/services/interest"
	"advance/internal/services/notification"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

type MemberDirectory interface {
	ListActiveMembers(ctx context.Context) ([]models.User, error)
}

// AccountReader is satisfied by ledger.Service.
type AccountReader interface {
	GetAccount(ctx context.Context, userID uint) (*models.Account, error)
}

type ActivePeriods interface {
	UserIDsWithActiveInPeriod(ctx context.Context, period string) ([]uint, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, to notification.Recipient, msg notification.Message, opts ...notification.DispatchOption) notification.Results
}

type JobsConfig struct {
	MonthlyAmount decimal.Decimal
	Location      *time.Location
	Concurrency   int
	Now           func() time.Time
}

type Jobs struct {
	members  MemberDirectory
	accounts AccountReader
	deposits ActivePeriods
	notifier Notifier
	config   JobsConfig
	log      *zap.Logger
}

func NewJobs(members MemberDirectory, accounts AccountReader, deposits ActivePeriods, notifier Notifier, config JobsConfig, log *zap.Logger) *Jobs {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaultConcurrency
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Jobs{
		members:  members,
		accounts: accounts,
		deposits: deposits,
		notifier: notifier,
		config:   config,
		log:      logger.OrNop(log).Named("jobs"),
	}
}

// SendMonthlyStatements sends every active member the statement for the
// month that just ended. Totals are those at send time and are labelled as
// such. It returns the number of members notified.
func (j *Jobs) SendMonthlyStatements(ctx context.Context) (int, error) {
	now := j.config.Now().In(j.config.Location)
	closed := interest.MonthStart(now).AddDate(0, -1, 0)

	members, err := j.members.ListActiveMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list members: %w", err)
	}

	var sent atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Concurrency)
	for _, m := range members {
		m := m
		g.Go(func() error {
			account, err := j.accounts.GetAccount(gctx, m.ID)
			if err != nil {
				j.log.Error("statement skipped, account unavailable", zap.Uint("user_id", m.ID), zap.Error(err))
				return nil
			}
			to := notification.RecipientFromUser(m)
			j.notifier.Dispatch(gctx, to, notification.MonthlyStatementMessage(to, *account, closed, now))
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	j.log.Info("monthly statements sent", zap.String("period", interest.Period(closed)), zap.Int32("members", sent.Load()))
	return int(sent.Load()), nil
}

// SendContributionReminders notifies active members with no pending or
// completed deposit in the current month.
func (j *Jobs) SendContributionReminders(ctx context.Context) (int, error) {
	now := j.config.Now().In(j.config.Location)
	period := interest.Period(now)

	members, err := j.members.ListActiveMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list members: %w", err)
	}
	paid, err := j.deposits.UserIDsWithActiveInPeriod(ctx, period)
	if err != nil {
		return 0, fmt.Errorf("failed to list deposits for %s: %w", period, err)
	}
	done := make(map[uint]struct{}, len(paid))
	for _, id := range paid {
		done[id] = struct{}{}
	}

	var sent atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Concurrency)
	for _, m := range members {
		if _, ok := done[m.ID]; ok {
			continue
		}
		m := m
		g.Go(func() error {
			to := notification.RecipientFromUser(m)
			j.notifier.Dispatch(gctx, to, notification.ContributionReminderMessage(to, j.config.MonthlyAmount, now))
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	j.log.Info("contribution reminders sent", zap.String("period", period), zap.Int32("members", sent.Load()))
	return int(sent.Load()), nil
}
