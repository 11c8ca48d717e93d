package repositories

import (
	"context"
	"errors"
	"log"

	"advance/internal/models"
	"advance/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository. cache may be nil.
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if uniqueViolation(err) == constraintUserEmail {
				return ErrEmailTaken
			}
			return ErrDatabaseOperation
		}
		pref := models.DefaultPreference(user.ID)
		if err := tx.Create(&pref).Error; err != nil {
			return ErrDatabaseOperation
		}
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(ctx, id); err == nil && user != nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(ctx, &user); err != nil {
			log.Printf("Failed to cache user: %v", err)
		}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) ListActiveStaff(ctx context.Context) ([]models.User, error) {
	return r.listActive(ctx, models.RoleAdmin)
}

func (r *userRepository) ListActiveMembers(ctx context.Context) ([]models.User, error) {
	return r.listActive(ctx, models.RoleMember)
}

func (r *userRepository) listActive(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return users, nil
}
