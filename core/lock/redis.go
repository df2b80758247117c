package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisRetryInterval = 250 * time.Millisecond

// Redis is a Locker shared by every process using the same Redis.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedis connects to Redis and verifies it with a ping.
func NewRedis(ctx context.Context, cfg Config, logger *zap.Logger) (*Redis, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisWithClient(rdb, cfg, logger), rdb, nil
}

// NewRedisWithClient wraps an existing Redis client.
func NewRedisWithClient(rdb redislock.RedisClient, cfg Config, logger *zap.Logger) *Redis {
	ttl := time.Duration(cfg.LockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{
		client: redislock.New(rdb),
		ttl:    ttl,
		prefix: cfg.KeyPrefix,
		logger: logger,
	}
}

// TryLock implements Locker.
func (r *Redis) TryLock(ctx context.Context, key string) (Lock, error) {
	return r.obtain(ctx, key, nil)
}

// Lock implements Locker. Obtain gives up after one ttl when ctx carries no
// deadline, so rounds are repeated until the key is free or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (Lock, error) {
	return retryObtain(ctx, key, redisRetryInterval, func(ctx context.Context) (Lock, error) {
		return r.obtain(ctx, key, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(redisRetryInterval),
		})
	})
}

func (r *Redis) obtain(ctx context.Context, key string, opts *redislock.Options) (Lock, error) {
	l, err := r.client.Obtain(ctx, r.prefix+key, r.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	held := &redisLock{lock: l, stop: make(chan struct{})}
	go held.keepAlive(r.ttl, r.logger.With(zap.String("lock", key)))
	return held, nil
}

type redisLock struct {
	lock *redislock.Lock
	stop chan struct{}
	once sync.Once
}

// keepAlive refreshes the lease until released, so long syncs keep their lock.
func (l *redisLock) keepAlive(ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), ttl/2)
			err := l.lock.Refresh(ctx, ttl, nil)
			cancel()
			if err != nil {
				logger.Warn("Failed to refresh lock", zap.Error(err))
				return
			}
		}
	}
}

func (l *redisLock) Release(ctx context.Context) error {
	var err error
	l.once.Do(func() {
		close(l.stop)
		err = l.lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			err = nil
		}
	})
	return err
}
