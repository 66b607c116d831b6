package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "contracteval:"

// RedisStore keeps sessions as JSON values with a sorted-set index scored
// by login time. Values expire after Retention; the index is pruned lazily.
type RedisStore struct {
	Client    redis.Cmdable
	Retention time.Duration
}

// NewRedisStore constructs a RedisStore. A zero retention keeps sessions forever.
func NewRedisStore(client redis.Cmdable, retention time.Duration) *RedisStore {
	return &RedisStore{Client: client, Retention: retention}
}

func sessionKey(id string) string { return redisKeyPrefix + "session:" + id }

func indexKey() string { return redisKeyPrefix + "sessions" }

// Create stores a new session and indexes it.
func (r *RedisStore) Create(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(s.ID), payload, r.Retention)
		p.ZAdd(ctx, indexKey(), redis.Z{Score: float64(s.StartedAt.UnixNano()), Member: s.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis create session %s: %w", s.ID, err)
	}
	return nil
}

// Get returns a session by ID.
func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.Client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return s, nil
}

// Update replaces an existing session, keeping its expiry.
func (r *RedisStore) Update(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ok, err := r.Client.SetXX(ctx, sessionKey(s.ID), payload, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("redis update session %s: %w", s.ID, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// End marks a session as ended and drops its pending analysis.
func (r *RedisStore) End(ctx context.Context, id string, at time.Time) error {
	s, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if s.EndedAt == nil {
		ended := at.UTC()
		s.EndedAt = &ended
	}
	s.Pending = nil
	return r.Update(ctx, s)
}

// List returns indexed sessions by login time, dropping expired entries from the index.
func (r *RedisStore) List(ctx context.Context) ([]Session, error) {
	ids, err := r.Client.ZRange(ctx, indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list sessions: %w", err)
	}
	if len(ids) == 0 {
		return []Session{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}
	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load sessions: %w", err)
	}

	out := make([]Session, 0, len(values))
	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", ids[i], err)
		}
		out = append(out, s)
	}
	if len(expired) > 0 {
		_ = r.Client.ZRem(ctx, indexKey(), expired...).Err()
	}
	sortSessions(out)
	return out, nil
}

var _ Store = (*RedisStore)(nil)
