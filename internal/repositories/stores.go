package repositories

import (
	"advance/internal/repositories/cache"

	"gorm.io/gorm"
)

// Stores groups every repository the server needs so that postgres and the
// in-memory store can be swapped at startup.
type Stores struct {
	Ledger        LedgerStore
	Notifications NotificationRepository
	Preferences   PreferenceRepository
	Deliveries    DeliveryRepository
	Users         UserRepository
}

// NewPostgresStores builds the gorm-backed repositories. cache may be nil.
func NewPostgresStores(db *gorm.DB, cache *cache.CacheService) Stores {
	return Stores{
		Ledger:        NewLedgerStore(db),
		Notifications: NewNotificationRepository(db),
		Preferences:   NewPreferenceRepository(db),
		Deliveries:    NewDeliveryRepository(db),
		Users:         NewUserRepository(db, cache),
	}
}
