package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipe-companion/backend/internal/types"
)

// RedisStore is a Store backed by Redis keys with a TTL
type RedisStore struct {
	redis       *redis.Client
	ttl         time.Duration
	inFlightTTL time.Duration
}

// NewRedisStore creates a RedisStore
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis:       client,
		ttl:         ttl,
		inFlightTTL: DefaultInFlightTTL,
	}
}

// releaseScript deletes the in-flight marker only while it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func stateKey(id string) string {
	return fmt.Sprintf("session:state:%s", id)
}

func inFlightKey(id string) string {
	return fmt.Sprintf("session:inflight:%s", id)
}

// Load retrieves a page state from Redis
func (s *RedisStore) Load(ctx context.Context, id string) (*types.PageState, error) {
	data, err := s.redis.Get(ctx, stateKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.NewPageState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var state types.PageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &state, nil
}

// Save writes a page state to Redis and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, id string, state *types.PageState) error {
	state.UpdatedAt = time.Now()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, stateKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// BeginGeneration sets the in-flight marker to a fresh owner token if it is not already set
func (s *RedisStore) BeginGeneration(ctx context.Context, id string) (string, error) {
	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, inFlightKey(id), token, s.inFlightTTL).Result()
	if err != nil {
		return "", fmt.Errorf("failed to set in-flight marker: %w", err)
	}
	if !ok {
		return "", ErrGenerationInFlight
	}
	return token, nil
}

// EndGeneration clears the in-flight marker if token still owns it
func (s *RedisStore) EndGeneration(ctx context.Context, id, token string) error {
	if err := releaseScript.Run(ctx, s.redis, []string{inFlightKey(id)}, token).Err(); err != nil {
		return fmt.Errorf("failed to clear in-flight marker: %w", err)
	}
	return nil
}
