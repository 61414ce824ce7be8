package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "web:session:" // Session data: web:session:{sid}
	flashKeyPrefix   = "web:flash:"   // One-shot flash message: web:flash:{sid}
	stateKeyPrefix   = "web:oauth:"   // OAuth state nonce: web:oauth:{state}

	stateTTL = 10 * time.Minute
)

// Session is the credential pair identifying the current user.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Store persists browser sessions in Redis, keyed by the opaque
// session id carried in the cookie.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store with the given session lifetime.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Set persists the credentials for the session id.
func (s *Store) Set(ctx context.Context, sid string, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns the session for the id, or ok=false when absent.
// Reading refreshes the TTL so active sessions do not expire.
func (s *Store) Get(ctx context.Context, sid string) (Session, bool, error) {
	var sess Session
	data, err := s.client.GetEx(ctx, s.sessionKey(sid), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return sess, false, nil
	}
	if err != nil {
		return sess, false, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return sess, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return sess, true, nil
}

// Clear removes the session and its flash message. Other state keyed
// by the session id, like the dashboard snapshot, is owned and cleaned
// up by its own package.
func (s *Store) Clear(ctx context.Context, sid string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.sessionKey(sid))
	pipe.Del(ctx, s.flashKey(sid))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Flash stores a one-shot message shown on the next rendered page.
func (s *Store) Flash(ctx context.Context, sid, message string) error {
	if err := s.client.Set(ctx, s.flashKey(sid), message, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store flash: %w", err)
	}
	return nil
}

// PopFlash returns and removes the pending flash message, if any.
func (s *Store) PopFlash(ctx context.Context, sid string) string {
	msg, err := s.client.GetDel(ctx, s.flashKey(sid)).Result()
	if err != nil {
		return ""
	}
	return msg
}

// PutOAuthState stores a login state nonce for later verification.
func (s *Store) PutOAuthState(ctx context.Context, state string) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// TakeOAuthState consumes a state nonce, reporting whether it was valid.
func (s *Store) TakeOAuthState(ctx context.Context, state string) bool {
	n, err := s.client.Del(ctx, stateKeyPrefix+state).Result()
	return err == nil && n > 0
}

func (s *Store) sessionKey(sid string) string {
	return sessionKeyPrefix + sid
}

func (s *Store) flashKey(sid string) string {
	return flashKeyPrefix + sid
}
