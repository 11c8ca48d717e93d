package events

import (
	"context"
	"time"

	"advance/internal/models"

	"github.com/oklog/ulid/v2"
)

type Type string

const (
	DepositCreated   Type = "deposit.created"
	DepositApproved  Type = "deposit.approved"
	DepositRejected  Type = "deposit.rejected"
	DepositCancelled Type = "deposit.cancelled"
)

// Event describes a committed deposit transition.
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Deposit    models.Deposit `json:"deposit"`
	ActorID    uint           `json:"actor_id"`
	Reason     string         `json:"reason,omitempty"`
}

func NewEvent(t Type, deposit models.Deposit, actorID uint, reason string) Event {
	return Event{
		ID:         ulid.Make().String(),
		Type:       t,
		OccurredAt: time.Now(),
		Deposit:    deposit,
		ActorID:    actorID,
		Reason:     reason,
	}
}

// Publisher is what the deposit state machine depends on. Publish must be
// called only after the owning transaction has committed.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Subscriber reacts to published events.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, e Event) error
}

type MetricsCollector interface {
	RecordEvent(eventType string)
}

type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEvent(string) {}

type BusConfig struct {
	// HandlerTimeout bounds each subscriber invocation.
	HandlerTimeout time.Duration
	// MaxInFlight bounds concurrently running subscriber invocations.
	MaxInFlight int
}
