package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const StateTTL = 5 * time.Minute

var ErrStateNotFound = errors.New("oauth state is unknown or expired")

// StateStore keeps the PKCE verifier of a pending login keyed by its state
// value. Each state can be consumed once.
type StateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{
		client: client,
		prefix: "oauth_state:",
		ttl:    StateTTL,
	}
}

func (s *StateStore) key(state string) string {
	return s.prefix + state
}

func (s *StateStore) Save(ctx context.Context, state, codeVerifier string) error {
	if state == "" || codeVerifier == "" {
		return errors.New("oauth state: missing state or verifier")
	}
	if err := s.client.Set(ctx, s.key(state), codeVerifier, s.ttl).Err(); err != nil {
		return fmt.Errorf("oauth state: save: %w", err)
	}
	return nil
}

// Consume returns the verifier stored for state and deletes it.
func (s *StateStore) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrStateNotFound
	}
	val, err := s.client.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("oauth state: consume: %w", err)
	}
	return val, nil
}
