package notification

import (
	"context"
	"errors"

	"advance/internal/logger"
	"advance/internal/models"
	"advance/internal/repositories"

	"go.uber.org/zap"
)

// PreferenceResolver decides which channels a user accepts for a category.
// A missing preference record enables every channel.
type PreferenceResolver struct {
	prefs repositories.PreferenceRepository
	log   *zap.Logger
}

func NewPreferenceResolver(prefs repositories.PreferenceRepository, log *zap.Logger) *PreferenceResolver {
	if prefs == nil {
		panic("preference repository is required")
	}
	return &PreferenceResolver{prefs: prefs, log: logger.OrNop(log).Named("preferences")}
}

// Resolve returns the enabled flag of every channel.
func (r *PreferenceResolver) Resolve(ctx context.Context, userID uint, category models.Category) map[models.Channel]bool {
	out := make(map[models.Channel]bool, len(models.Channels))

	pref, err := r.prefs.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrPreferenceNotFound) {
			r.log.Warn("preference lookup failed, notifying on all channels",
				zap.Uint("user_id", userID), zap.Error(err))
		}
		for _, ch := range models.Channels {
			out[ch] = true
		}
		return out
	}

	for _, ch := range models.Channels {
		out[ch] = pref.Allows(category, ch)
	}
	return out
}

func (r *PreferenceResolver) ShouldNotify(ctx context.Context, userID uint, category models.Category, ch models.Channel) bool {
	return r.Resolve(ctx, userID, category)[ch]
}
