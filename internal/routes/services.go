package routes

import (
	"time"

	"advance/internal/config"
	"advance/internal/logger"
	"advance/internal/metrics"
	"advance/internal/repositories"
	"advance/internal/repositories/cache"
	"advance/internal/services/deposit"
	"advance/internal/services/events"
	"advance/internal/services/ledger"
	"advance/internal/services/notification"
	"advance/internal/services/scheduler"

	"go.uber.org/zap"
)

// Infra carries the optional external clients. Nil fields disable the
// feature they back.
type Infra struct {
	Cache    *cache.CacheService
	Kafka    events.MessageWriter
	SendMail notification.SendMailFunc
	Metrics  *metrics.Collector
}

// Services is the wired application core shared by the HTTP layer and the
// scheduler.
type Services struct {
	Users         repositories.UserRepository
	Ledger        ledger.Service
	Deposits      deposit.Service
	Notifications *notification.Service
	Dispatcher    *notification.Dispatcher
	Bus           *events.Bus
	Jobs          *scheduler.Jobs
}

// BuildServices wires the deposit state machine to the ledger, the event bus
// and the notification dispatcher.
func BuildServices(stores repositories.Stores, infra Infra, settings config.Settings, log *zap.Logger) *Services {
	log = logger.OrNop(log)

	// Typed nils must not leak into the optional interfaces below.
	var (
		accountCache  ledger.AccountCache
		counter       notification.UnreadCounter
		realtime      notification.RealtimePublisher
		depositStats  deposit.MetricsCollector
		deliveryStats notification.MetricsCollector
		eventStats    events.MetricsCollector
	)
	if infra.Cache != nil {
		accountCache, counter, realtime = infra.Cache, infra.Cache, infra.Cache
	}
	if infra.Metrics != nil {
		depositStats, deliveryStats, eventStats = infra.Metrics, infra.Metrics, infra.Metrics
	}

	ledgerService := ledger.NewService(stores.Ledger, accountCache, ledger.Config{
		DefaultInterestRate: settings.Ledger.DefaultInterestRate,
	}, log)

	senders := []notification.Sender{
		notification.NewInAppSender(stores.Notifications, realtime, counter, log),
		notification.NewEmailSender(settings.SMTP, infra.SendMail),
		notification.NewSMSSender(settings.SMS),
	}
	resolver := notification.NewPreferenceResolver(stores.Preferences, log)
	dispatcher := notification.NewDispatcher(resolver, senders, stores.Deliveries, notification.Config{
		ChannelTimeout: settings.Notification.ChannelTimeout,
		Concurrency:    settings.Notification.Concurrency,
	}, deliveryStats, log)

	bus := events.NewBus(events.BusConfig{
		HandlerTimeout: 2 * settings.Notification.ChannelTimeout,
	}, log, eventStats)
	bus.Subscribe(events.NewNotificationTrigger(stores.Users, dispatcher, log))
	if infra.Kafka != nil {
		bus.Subscribe(events.NewKafkaSubscriber(infra.Kafka, log))
	}

	depositService := deposit.NewService(stores.Ledger, ledgerService, bus, deposit.Config{
		MonthlyAmount:       settings.Ledger.MonthlyDepositAmount,
		DefaultInterestRate: settings.Ledger.DefaultInterestRate,
		Location:            settings.Ledger.Location,
	}, depositStats, log)

	jobs := scheduler.NewJobs(stores.Users, ledgerService, stores.Ledger.Deposits(), dispatcher, scheduler.JobsConfig{
		MonthlyAmount: settings.Ledger.MonthlyDepositAmount,
		Location:      settings.Ledger.Location,
		Concurrency:   settings.Notification.Concurrency,
		Now:           time.Now,
	}, log)

	return &Services{
		Users:         stores.Users,
		Ledger:        ledgerService,
		Deposits:      depositService,
		Notifications: notification.NewService(stores.Notifications, stores.Preferences, stores.Deliveries, counter, log),
		Dispatcher:    dispatcher,
		Bus:           bus,
		Jobs:          jobs,
	}
}
