package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

const (
	sessionKeyPrefix = "portfolio:session:"
	maxUpdateRetries = 5
)

// RedisSessionRepo stores each session as a JSON value whose key expires after
// ttl of inactivity. Updates use WATCH/MULTI so concurrent writers to the same
// session retry instead of overwriting each other.
type RedisSessionRepo struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisSessionRepo(rdb redis.UniversalClient, ttl time.Duration, log logger.Logger) *RedisSessionRepo {
	return &RedisSessionRepo{rdb: rdb, ttl: ttl, logger: log}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (r *RedisSessionRepo) Save(ctx context.Context, s *portfolio.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepo) Get(ctx context.Context, id uuid.UUID) (*portfolio.Session, error) {
	data, err := r.rdb.GetEx(ctx, sessionKey(id), r.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, portfolio.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSession(data)
}

func (r *RedisSessionRepo) Update(ctx context.Context, id uuid.UUID, fn func(s *portfolio.Session) error) (*portfolio.Session, error) {
	key := sessionKey(id)
	var updated *portfolio.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return portfolio.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}

		s, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		out, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for attempt := 1; attempt <= maxUpdateRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		r.logger.Debug("Session update conflicted, retrying",
			zap.String("session_id", id.String()), zap.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("update session %s: too many concurrent writers", id)
}

func (r *RedisSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func decodeSession(data []byte) (*portfolio.Session, error) {
	var s portfolio.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Builder == nil {
		s.Builder = portfolio.NewBuilder()
	}
	return &s, nil
}
