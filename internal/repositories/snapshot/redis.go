package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/auramoney/gameclient/internal/models"
)

const (
	// defaultKeyPrefix scopes snapshot keys in Redis
	defaultKeyPrefix = "session:snapshot:"

	// globalSlot is the room slot used when no room id is set
	globalSlot = "global"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a room
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Config holds configuration for the Redis snapshot repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// KeyPrefix overrides the default key prefix
	KeyPrefix string
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedis creates a new Redis-backed snapshot repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client:    cfg.RedisClient,
		keyPrefix: keyPrefix,
	}, nil
}

// SaveSnapshot persists a session snapshot for a room
func (r *redisRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || input.State == nil {
		return errors.New("input and state cannot be nil")
	}

	stateJSON, err := json.Marshal(input.State)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := r.key(input.RoomID)
	if err := r.client.Set(ctx, key, stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// GetSnapshot retrieves the persisted snapshot for a room
func (r *redisRepository) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.SessionState, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	stateJSON, err := r.client.Get(ctx, r.key(input.RoomID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var state models.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &state, nil
}

// DeleteSnapshot removes the persisted snapshot for a room
func (r *redisRepository) DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if err := r.client.Del(ctx, r.key(input.RoomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

// key builds the Redis key for a room slot
func (r *redisRepository) key(roomID string) string {
	if roomID == "" {
		roomID = globalSlot
	}
	return r.keyPrefix + roomID
}
