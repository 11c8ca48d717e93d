package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"advance/internal/models"

	"github.com/redis/go-redis/v9"
)

const unreadCountTTL = 5 * time.Minute

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func marshal(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return data, nil
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, s.GenerateKey("user", "id", user.ID), user)
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, s.GenerateKey("user", "id", userID), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("user", "id", userID))
}

// Account caching
func (s *CacheService) CacheAccount(ctx context.Context, account *models.Account) error {
	return s.Set(ctx, s.GenerateKey("account", "user", account.UserID), account)
}

// GetAccount returns nil, nil on a cache miss.
func (s *CacheService) GetAccount(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	found, err := s.Get(ctx, s.GenerateKey("account", "user", userID), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

func (s *CacheService) InvalidateAccount(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("account", "user", userID))
}

// Unread notification counters
func (s *CacheService) SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	return s.SetWithTTL(ctx, s.GenerateKey("notifications", "unread", userID), count, unreadCountTTL)
}

func (s *CacheService) GetUnreadCount(ctx context.Context, userID uint) (int64, bool, error) {
	var count int64
	found, err := s.Get(ctx, s.GenerateKey("notifications", "unread", userID), &count)
	return count, found, err
}

func (s *CacheService) InvalidateUnreadCount(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("notifications", "unread", userID))
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
