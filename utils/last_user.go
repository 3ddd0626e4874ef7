// File: utils/last_user.go
package utils

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const lastUserKey = "phms:last_active_user"

// LastUserStore persists the single "last active user" key that the
// restart recovery path reads. Written when a session is opened.
type LastUserStore struct {
	client *redis.Client
}

func NewLastUserStore(client *redis.Client) *LastUserStore {
	return &LastUserStore{client: client}
}

// Set records the given user as the last active one. The key has no TTL;
// it survives until the next sign-in overwrites it or Clear removes it.
func (s *LastUserStore) Set(ctx context.Context, userID string) error {
	if err := s.client.Set(ctx, lastUserKey, userID, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist last active user: %w", err)
	}
	return nil
}

// Get returns the last active user id, or "" when none has been recorded.
func (s *LastUserStore) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, lastUserKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last active user: %w", err)
	}
	return val, nil
}

// Clear removes the key (sign-out of the last session).
func (s *LastUserStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, lastUserKey).Err(); err != nil {
		return fmt.Errorf("failed to clear last active user: %w", err)
	}
	return nil
}
