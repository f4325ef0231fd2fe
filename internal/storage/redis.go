package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

var _ domain.SessionStore = (*RedisStore)(nil)

const (
	defaultKeyPrefix = "ottomart:"
	defaultTTL       = 24 * time.Hour
)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces every key the store writes.
func WithKeyPrefix(p string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = p
	}
}

// WithTTL sets how long an untouched session is kept.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// RedisStore keeps sessions as JSON blobs with a TTL, plus a set of the
// IDs of active sessions. Several processes can share one store; each
// session is still owned by a single shopper.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisStore creates a store on client.
func NewRedisStore(client *redis.Client, log *logger.Logger, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    defaultTTL,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) sessionKey(id string) string { return s.prefix + "session:" + id }
func (s *RedisStore) activeKey() string           { return s.prefix + "sessions:active" }

// Save persists a session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(session.ID), data, s.ttl)
		if session.Status == domain.SessionActive {
			pipe.SAdd(ctx, s.activeKey(), session.ID)
		} else {
			pipe.SRem(ctx, s.activeKey(), session.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	s.log.Debug("saved session %s to redis (items=%d, status=%s)", session.ID, len(session.Cart), session.Status)
	return nil
}

// Load retrieves a session by ID.
func (s *RedisStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	return decodeSession(id, data)
}

func decodeSession(id string, data []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &sess, nil
}

// Delete removes a session by ID.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.sessionKey(id))
		pipe.SRem(ctx, s.activeKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if del.Val() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive returns active sessions, oldest first. IDs whose blob has
// expired are pruned from the active set.
func (s *RedisStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	ids, err := s.client.SMembers(ctx, s.activeKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing active sessions: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.sessionKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading active sessions: %w", err)
	}

	var (
		out   []*domain.Session
		stale []interface{}
	)
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		sess, err := decodeSession(ids[i], []byte(str))
		if err != nil {
			return nil, err
		}
		if sess.Status == domain.SessionActive {
			out = append(out, sess)
		}
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.activeKey(), stale...).Err(); err != nil {
			s.log.Warn("pruning expired sessions: %v", err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}
