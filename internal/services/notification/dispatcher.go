package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/repositories"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultChannelTimeout = 10 * time.Second
	defaultConcurrency    = 8
	recordTimeout         = 5 * time.Second
)

// Resolver is satisfied by PreferenceResolver.
type Resolver interface {
	Resolve(ctx context.Context, userID uint, category models.Category) map[models.Channel]bool
}

type Dispatcher struct {
	resolver   Resolver
	senders    map[models.Channel]Sender
	deliveries repositories.DeliveryRepository
	config     Config
	metrics    MetricsCollector
	log        *zap.Logger
}

// NewDispatcher wires the channel senders. deliveries may be nil, in which
// case results are only logged.
func NewDispatcher(
	resolver Resolver,
	senders []Sender,
	deliveries repositories.DeliveryRepository,
	config Config,
	metrics MetricsCollector,
	log *zap.Logger,
) *Dispatcher {
	if resolver == nil {
		panic("resolver is required")
	}
	if config.ChannelTimeout <= 0 {
		config.ChannelTimeout = defaultChannelTimeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaultConcurrency
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	bySender := make(map[models.Channel]Sender, len(senders))
	for _, s := range senders {
		if s != nil {
			bySender[s.Channel()] = s
		}
	}

	return &Dispatcher{
		resolver:   resolver,
		senders:    bySender,
		deliveries: deliveries,
		config:     config,
		metrics:    metrics,
		log:        logger.OrNop(log).Named("dispatcher"),
	}
}

// Dispatch delivers msg to one recipient on every enabled channel. It never
// fails: each channel's outcome is reported in the returned Results.
func (d *Dispatcher) Dispatch(ctx context.Context, to Recipient, msg Message, opts ...DispatchOption) Results {
	var o dispatchOptions
	for _, opt := range opts {
		opt(&o)
	}
	if msg.EventID == "" {
		msg.EventID = ulid.Make().String()
	}

	enabled := d.resolver.Resolve(ctx, to.UserID, msg.Category)
	if o.inAppOverride {
		enabled[models.ChannelInApp] = true
	}

	results := make(Results, len(models.Channels))
	var mu sync.Mutex
	var g errgroup.Group

	for _, ch := range models.Channels {
		ch := ch
		if !enabled[ch] {
			results[ch] = Result{Channel: ch, Status: models.DeliverySkipped, Error: "disabled by preference"}
			continue
		}
		sender, ok := d.senders[ch]
		if !ok {
			results[ch] = Result{Channel: ch, Status: models.DeliverySkipped, Error: "no sender registered"}
			continue
		}

		g.Go(func() error {
			res := d.send(ctx, sender, to, msg)
			mu.Lock()
			results[ch] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// DispatchAll fans msg out to every recipient. Recipients run concurrently up
// to Config.Concurrency; a slow recipient never holds up the others beyond
// that bound.
func (d *Dispatcher) DispatchAll(ctx context.Context, recipients []Recipient, msg Message, opts ...DispatchOption) map[uint]Results {
	if msg.EventID == "" {
		msg.EventID = ulid.Make().String()
	}

	out := make(map[uint]Results, len(recipients))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(d.config.Concurrency)

	for _, r := range recipients {
		r := r
		g.Go(func() error {
			res := d.Dispatch(ctx, r, msg, opts...)
			mu.Lock()
			out[r.UserID] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (d *Dispatcher) send(ctx context.Context, sender Sender, to Recipient, msg Message) Result {
	ch := sender.Channel()
	start := time.Now()

	sendCtx, cancel := context.WithTimeout(ctx, d.config.ChannelTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("sender panic: %v", r)
			}
		}()
		done <- sender.Send(sendCtx, to, msg)
	}()

	var err error
	select {
	case err = <-done:
	case <-sendCtx.Done():
		err = fmt.Errorf("%w: %v", ErrChannelTimeout, sendCtx.Err())
	}

	res := Result{Channel: ch, Duration: time.Since(start)}
	fields := []zap.Field{
		zap.Uint("user_id", to.UserID),
		zap.String("channel", string(ch)),
		zap.String("event_id", msg.EventID),
		zap.String("notification_type", string(msg.Type)),
		zap.Duration("duration", res.Duration),
	}

	switch {
	case err == nil:
		res.Status = models.DeliverySent
		res.Delivered = true
		d.log.Debug("notification delivered", fields...)
	case errors.Is(err, ErrChannelNotConfigured), errors.Is(err, ErrNoAddress):
		res.Status = models.DeliverySkipped
		res.Error = err.Error()
		d.log.Info("notification channel skipped", append(fields, zap.Error(err))...)
	default:
		res.Status = models.DeliveryFailed
		res.Error = err.Error()
		d.log.Error("notification delivery failed", append(fields, zap.Error(err))...)
	}

	d.metrics.RecordDelivery(string(ch), string(res.Status), res.Duration)
	d.record(ctx, to, msg, res)
	return res
}

func (d *Dispatcher) record(ctx context.Context, to Recipient, msg Message, res Result) {
	if d.deliveries == nil {
		return
	}
	// The record outlives a cancelled or timed out send.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	rec := &models.DeliveryRecord{
		ID:         ulid.Make().String(),
		EventID:    msg.EventID,
		UserID:     to.UserID,
		Type:       msg.Type,
		Channel:    res.Channel,
		Status:     res.Status,
		Error:      res.Error,
		DurationMs: res.Duration.Milliseconds(),
	}
	if err := d.deliveries.Create(recordCtx, rec); err != nil {
		d.log.Warn("failed to write delivery record",
			zap.Uint("user_id", to.UserID),
			zap.String("channel", string(res.Channel)),
			zap.Error(err),
		)
	}
}
