package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps the session in Redis under two namespaced keys written
// and deleted in a single transaction.
type RedisStore struct {
	redis     *redis.Client
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr string, db int, password, namespace string, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreWithClient(rdb, namespace, ttl, logger), nil
}

// NewRedisStoreWithClient wraps an existing client. A zero ttl means the
// session never expires on its own.
func NewRedisStoreWithClient(rdb *redis.Client, namespace string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{redis: rdb, namespace: namespace, ttl: ttl, logger: logger}
}

func (s *RedisStore) accessKey() string  { return s.namespace + AccessTokenKey }
func (s *RedisStore) refreshKey() string { return s.namespace + RefreshTokenKey }

func (s *RedisStore) Load(ctx context.Context) (Session, bool, error) {
	vals, err := s.redis.MGet(ctx, s.accessKey(), s.refreshKey()).Result()
	if err != nil {
		return Session{}, false, fmt.Errorf("redis session load: %w", err)
	}

	access, _ := vals[0].(string)
	refresh, _ := vals[1].(string)
	sess := Session{AccessToken: access, RefreshToken: refresh}
	if !sess.Valid() {
		if access != "" || refresh != "" {
			// one key expired or was removed out of band
			s.logger.Warn("session.redis.partial_session_dropped")
			if err := s.Clear(ctx); err != nil {
				s.logger.Error("session.redis.clear_failed", zap.Error(err))
			}
		}
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return ErrIncomplete
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.accessKey(), sess.AccessToken, s.ttl)
		pipe.Set(ctx, s.refreshKey(), sess.RefreshToken, s.ttl)
		return nil
	})
	if err != nil {
		s.logger.Error("session.redis.save_failed", zap.Error(err))
		return fmt.Errorf("redis session save: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.accessKey(), s.refreshKey()).Err(); err != nil {
		return fmt.Errorf("redis session clear: %w", err)
	}
	return nil
}

// HealthCheck verifies that Redis is reachable.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	if s.redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}
