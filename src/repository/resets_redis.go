package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ganak-service/src/models"

	"github.com/redis/go-redis/v9"
)

const (
	resetKeyPrefix    = "password_reset:"
	attemptsKeyPrefix = "password_reset_attempts:"
)

// ErrResetExpired is returned when a reset is saved with a deadline in the past.
var ErrResetExpired = errors.New("reset code already expired")

// reserveScript spends one attempt if the reset exists and has attempts left.
// Returns the new count, -1 when there is no reset and -2 when attempts are spent.
var reserveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local n = tonumber(redis.call('GET', KEYS[2]) or '0')
if n >= tonumber(ARGV[1]) then
	return -2
end
n = redis.call('INCR', KEYS[2])
if redis.call('PTTL', KEYS[2]) < 0 then
	redis.call('PEXPIRE', KEYS[2], redis.call('PTTL', KEYS[1]))
end
return n
`)

// RedisResetStore keeps pending reset codes as JSON values expiring with the
// code. The attempt counter lives in a sibling key so it can be bumped atomically.
type RedisResetStore struct {
	client *redis.Client
}

func NewRedisResetStore(client *redis.Client) *RedisResetStore {
	return &RedisResetStore{client: client}
}

func resetKey(email string) string {
	return resetKeyPrefix + email
}

func attemptsKey(email string) string {
	return attemptsKeyPrefix + email
}

func (s *RedisResetStore) Save(ctx context.Context, reset models.PasswordReset) error {
	ttl := time.Until(reset.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: %s", ErrResetExpired, reset.Email)
	}
	payload, err := json.Marshal(reset)
	if err != nil {
		return err
	}

	// Replace the code and restart its counter together
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resetKey(reset.Email), payload, ttl)
		pipe.Set(ctx, attemptsKey(reset.Email), reset.Attempts, ttl)
		return nil
	})
	return err
}

func (s *RedisResetStore) Get(ctx context.Context, email string) (*models.PasswordReset, error) {
	payload, err := s.client.Get(ctx, resetKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeReset(payload)
}

// Reserve spends one attempt before the caller checks the code. Expiry is
// enforced by the key TTL, so now is unused here.
func (s *RedisResetStore) Reserve(ctx context.Context, email string, limit int, _ time.Time) (*models.PasswordReset, error) {
	n, err := reserveScript.Run(ctx, s.client, []string{resetKey(email), attemptsKey(email)}, limit).Int()
	if err != nil {
		return nil, err
	}
	switch n {
	case -1:
		return nil, ErrNotFound
	case -2:
		return nil, ErrAttemptsExhausted
	}

	reset, err := s.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	reset.Attempts = n
	return reset, nil
}

// Consume deletes the reset with GETDEL so only one caller receives it.
func (s *RedisResetStore) Consume(ctx context.Context, email string, _ time.Time) (*models.PasswordReset, error) {
	payload, err := s.client.GetDel(ctx, resetKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// A leftover counter expires with its TTL and is reset by the next Save
	_ = s.client.Del(ctx, attemptsKey(email)).Err()
	return decodeReset(payload)
}

func decodeReset(payload []byte) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := json.Unmarshal(payload, &reset); err != nil {
		return nil, err
	}
	return &reset, nil
}
