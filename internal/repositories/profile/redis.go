package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "session:profile"

// ErrProfileNotFound is returned when no profile has been stored
var ErrProfileNotFound = errors.New("profile not found")

// Config holds configuration for the Redis profile repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Key overrides the default storage key
	Key string
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	key    string
}

// NewRedis creates a new Redis-backed profile repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		key:    key,
	}, nil
}

// SaveProfile persists the user profile
func (r *redisRepository) SaveProfile(ctx context.Context, input *SaveProfileInput) error {
	if input == nil || input.Profile == nil {
		return errors.New("input and profile cannot be nil")
	}

	profileJSON, err := json.Marshal(input.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, r.key, profileJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// GetProfile retrieves the persisted user profile
func (r *redisRepository) GetProfile(ctx context.Context, input *GetProfileInput) (*Profile, error) {
	profileJSON, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &p, nil
}
