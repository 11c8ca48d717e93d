// Package events is the trigger layer between the deposit state machine and
// its observers. Publishing never blocks on subscribers: each subscriber runs
// in its own goroutine, detached from the caller's cancellation and bounded
// by a timeout.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"advance/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultHandlerTimeout = 30 * time.Second
	defaultMaxInFlight    = 64
)

type Bus struct {
	mu      sync.RWMutex
	subs    []Subscriber
	closed  bool
	wg      sync.WaitGroup
	slots   chan struct{}
	timeout time.Duration
	log     *zap.Logger
	metrics MetricsCollector
}

func NewBus(cfg BusConfig, log *zap.Logger, metrics MetricsCollector) *Bus {
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = defaultHandlerTimeout
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = defaultMaxInFlight
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &Bus{
		slots:   make(chan struct{}, cfg.MaxInFlight),
		timeout: cfg.HandlerTimeout,
		log:     logger.OrNop(log).Named("events"),
		metrics: metrics,
	}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish hands e to every subscriber and returns immediately.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.log.Warn("event dropped after close", zap.String("event_id", e.ID), zap.String("type", string(e.Type)))
		return
	}

	b.metrics.RecordEvent(string(e.Type))
	detached := context.WithoutCancel(ctx)
	for _, s := range b.subs {
		b.wg.Add(1)
		go b.deliver(detached, s, e)
	}
}

func (b *Bus) deliver(ctx context.Context, s Subscriber, e Event) {
	defer b.wg.Done()

	b.slots <- struct{}{}
	defer func() { <-b.slots }()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	fields := []zap.Field{
		zap.String("subscriber", s.Name()),
		zap.String("event_id", e.ID),
		zap.String("type", string(e.Type)),
		zap.Uint("deposit_id", e.Deposit.ID),
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("subscriber panicked", append(fields, zap.String("panic", fmt.Sprint(r)))...)
		}
	}()

	if err := s.Handle(ctx, e); err != nil {
		b.log.Error("subscriber failed", append(fields, zap.Error(err))...)
		return
	}
	b.log.Debug("event handled", fields...)
}

// Wait blocks until every in-flight subscriber call has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// Close stops accepting events and waits for in-flight deliveries.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
}

var _ Publisher = (*Bus)(nil)
