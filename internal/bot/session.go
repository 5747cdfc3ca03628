package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rizalw/pricetag/internal/domain"
)

// Session is the per-chat conversational state. Currently only the last
// successfully resolved product, used when `.bulk <qty>` omits the code.
type Session struct {
	LastProduct *domain.Product `json:"last_product,omitempty"`
}

// SessionStore persists per-chat sessions.
type SessionStore interface {
	Get(ctx context.Context, chatID string) (Session, error)
	Set(ctx context.Context, chatID string, s Session) error
}

// MemorySessionStore keeps sessions in process memory. Suitable for a
// single-instance bot; state is lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

func (s *MemorySessionStore) Get(ctx context.Context, chatID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID], nil
}

func (s *MemorySessionStore) Set(ctx context.Context, chatID string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = sess
	return nil
}

// RedisSessionStore persists sessions in Redis with a TTL, so bulk
// shorthand survives bot restarts.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(chatID string) string {
	return "session:" + chatID
}

func (s *RedisSessionStore) Get(ctx context.Context, chatID string) (Session, error) {
	data, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, chatID string, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}
