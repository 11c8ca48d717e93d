package memory

import (
	"context"
	"sort"
	"time"

	"advance/internal/models"
	"advance/internal/repositories"
)

type notificationRepo struct{ v *view }

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	return r.v.do(func(st *state) error {
		st.nextNotification++
		n.ID = st.nextNotification
		if n.CreatedAt.IsZero() {
			n.CreatedAt = r.v.s.now()
		}
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r *notificationRepo) GetByID(_ context.Context, userID, id uint) (*models.Notification, error) {
	var out *models.Notification
	err := r.v.do(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.UserID != userID {
			return repositories.ErrNotificationNotFound
		}
		out = &n
		return nil
	})
	return out, err
}

func (r *notificationRepo) List(_ context.Context, userID uint, filter models.NotificationFilter) ([]models.Notification, int64, error) {
	var out []models.Notification
	err := r.v.do(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID != userID || (filter.UnreadOnly && n.IsRead) {
				continue
			}
			out = append(out, n)
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

func (r *notificationRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	var count int64
	err := r.v.do(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID && !n.IsRead {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *notificationRepo) MarkRead(_ context.Context, userID, id uint, at time.Time) error {
	return r.v.do(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.UserID != userID {
			return repositories.ErrNotificationNotFound
		}
		if n.IsRead {
			return nil
		}
		n.IsRead = true
		n.ReadAt = &at
		st.notifications[id] = n
		return nil
	})
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID uint, at time.Time) (int64, error) {
	var updated int64
	err := r.v.do(func(st *state) error {
		for id, n := range st.notifications {
			if n.UserID != userID || n.IsRead {
				continue
			}
			readAt := at
			n.IsRead = true
			n.ReadAt = &readAt
			st.notifications[id] = n
			updated++
		}
		return nil
	})
	return updated, err
}

func (r *notificationRepo) Delete(_ context.Context, userID, id uint) error {
	return r.v.do(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.UserID != userID {
			return repositories.ErrNotificationNotFound
		}
		delete(st.notifications, id)
		return nil
	})
}

func (r *notificationRepo) DeleteRead(_ context.Context, userID uint) (int64, error) {
	var deleted int64
	err := r.v.do(func(st *state) error {
		for id, n := range st.notifications {
			if n.UserID == userID && n.IsRead {
				delete(st.notifications, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

type preferenceRepo struct{ v *view }

func (r *preferenceRepo) GetByUserID(_ context.Context, userID uint) (*models.NotificationPreference, error) {
	var out *models.NotificationPreference
	err := r.v.do(func(st *state) error {
		p, ok := st.preferences[userID]
		if !ok {
			return repositories.ErrPreferenceNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *preferenceRepo) Save(_ context.Context, pref *models.NotificationPreference) error {
	return r.v.do(func(st *state) error {
		if existing, ok := st.preferences[pref.UserID]; ok {
			pref.ID = existing.ID
		} else {
			st.nextPreference++
			pref.ID = st.nextPreference
		}
		pref.UpdatedAt = r.v.s.now()
		st.preferences[pref.UserID] = *pref
		return nil
	})
}

type deliveryRepo struct{ v *view }

func (r *deliveryRepo) Create(_ context.Context, record *models.DeliveryRecord) error {
	return r.v.do(func(st *state) error {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = r.v.s.now()
		}
		st.deliveries = append(st.deliveries, *record)
		return nil
	})
}

func (r *deliveryRepo) ListByUser(_ context.Context, userID uint, limit int) ([]models.DeliveryRecord, error) {
	var out []models.DeliveryRecord
	err := r.v.do(func(st *state) error {
		for i := len(st.deliveries) - 1; i >= 0; i-- {
			if st.deliveries[i].UserID == userID {
				out = append(out, st.deliveries[i])
			}
		}
		return nil
	})
	return page(out, limit, 0), err
}
