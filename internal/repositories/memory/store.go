// Package memory is an in-process implementation of the repository
// interfaces. It enforces the same uniqueness and conditional-update rules as
// the postgres schema and backs STORAGE=memory runs and service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"advance/internal/models"
	"advance/internal/repositories"
)

type state struct {
	deposits      map[uint]models.Deposit
	accounts      map[uint]models.Account
	interest      map[uint]models.InterestCalculation
	notifications map[uint]models.Notification
	preferences   map[uint]models.NotificationPreference
	deliveries    []models.DeliveryRecord
	users         map[uint]models.User

	nextDeposit      uint
	nextAccount      uint
	nextInterest     uint
	nextNotification uint
	nextPreference   uint
	nextUser         uint
}

func newState() *state {
	return &state{
		deposits:      make(map[uint]models.Deposit),
		accounts:      make(map[uint]models.Account),
		interest:      make(map[uint]models.InterestCalculation),
		notifications: make(map[uint]models.Notification),
		preferences:   make(map[uint]models.NotificationPreference),
		users:         make(map[uint]models.User),
	}
}

func (s *state) clone() *state {
	c := *s
	c.deposits = make(map[uint]models.Deposit, len(s.deposits))
	for k, v := range s.deposits {
		c.deposits[k] = v
	}
	c.accounts = make(map[uint]models.Account, len(s.accounts))
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	c.interest = make(map[uint]models.InterestCalculation, len(s.interest))
	for k, v := range s.interest {
		c.interest[k] = v
	}
	c.notifications = make(map[uint]models.Notification, len(s.notifications))
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	c.preferences = make(map[uint]models.NotificationPreference, len(s.preferences))
	for k, v := range s.preferences {
		c.preferences[k] = v
	}
	c.users = make(map[uint]models.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.deliveries = append([]models.DeliveryRecord(nil), s.deliveries...)
	return &c
}

// Store holds all state behind a single mutex. Transactions run on a copy of
// the state that replaces the original only when fn succeeds.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// view is a handle on either the live state or a transaction's copy.
type view struct {
	s  *Store
	tx *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func (s *Store) live() *view { return &view{s: s} }

func (s *Store) Ledger() repositories.LedgerStore                   { return s.live() }
func (s *Store) Notifications() repositories.NotificationRepository { return &notificationRepo{s.live()} }
func (s *Store) Preferences() repositories.PreferenceRepository     { return &preferenceRepo{s.live()} }
func (s *Store) Deliveries() repositories.DeliveryRepository        { return &deliveryRepo{s.live()} }
func (s *Store) Users() repositories.UserRepository                 { return &userRepo{s.live()} }

// Stores exposes every repository backed by this store.
func (s *Store) Stores() repositories.Stores {
	return repositories.Stores{
		Ledger:        s.Ledger(),
		Notifications: s.Notifications(),
		Preferences:   s.Preferences(),
		Deliveries:    s.Deliveries(),
		Users:         s.Users(),
	}
}

func (v *view) Deposits() repositories.DepositRepository  { return &depositRepo{v} }
func (v *view) Accounts() repositories.AccountRepository  { return &accountRepo{v} }
func (v *view) Interest() repositories.InterestRepository { return &interestRepo{v} }

func (v *view) ExecuteInTransaction(ctx context.Context, fn func(repositories.LedgerStore) error) error {
	if v.tx != nil {
		return fn(v)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	work := v.s.st.clone()
	if err := fn(&view{s: v.s, tx: work}); err != nil {
		return err
	}
	v.s.st = work
	return nil
}

var _ repositories.LedgerStore = (*view)(nil)
