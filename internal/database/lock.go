package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// ErrLockBusy is returned when another bridge invocation held the lock for
// the whole wait budget
var ErrLockBusy = errors.New("payroll bridge is busy")

// releaseScript deletes the key only if it still holds our token
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func(ctx context.Context) error

// BridgeLock serializes bridge invocations that share one data directory
type BridgeLock interface {
	Acquire(ctx context.Context, wait time.Duration) (Unlock, error)
}

// LockConfig holds the bridge lock settings
type LockConfig struct {
	Key  string
	TTL  time.Duration
	Wait time.Duration
	Poll time.Duration
}

func GetLockConfig() *LockConfig {
	viper.SetDefault("bridge.lock_key", "payroll_bridge:lock")
	viper.SetDefault("bridge.lock_ttl", 45*time.Second)
	viper.SetDefault("bridge.lock_wait", 35*time.Second)
	viper.SetDefault("bridge.lock_poll", 100*time.Millisecond)

	return &LockConfig{
		Key:  viper.GetString("bridge.lock_key"),
		TTL:  viper.GetDuration("bridge.lock_ttl"),
		Wait: viper.GetDuration("bridge.lock_wait"),
		Poll: viper.GetDuration("bridge.lock_poll"),
	}
}

// NewBridgeLock uses Redis when a client is available and a process-local
// lock otherwise
func NewBridgeLock(rdb *redis.Client, config *LockConfig) BridgeLock {
	if rdb == nil {
		return NewLocalLock()
	}
	return NewRedisLock(rdb, config.Key, config.TTL, config.Poll)
}

// RedisLock is a SET NX lease with a random token. The TTL bounds how long a
// crashed holder can block other instances.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	poll   time.Duration
	token  func() string
}

func NewRedisLock(client *redis.Client, key string, ttl, poll time.Duration) *RedisLock {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return &RedisLock{
		client: client,
		key:    key,
		ttl:    ttl,
		poll:   poll,
		token:  uuid.NewString,
	}
}

func (l *RedisLock) Acquire(ctx context.Context, wait time.Duration) (Unlock, error) {
	token := l.token()
	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire bridge lock: %w", err)
		}
		if ok {
			return l.unlock(token), nil
		}

		if !time.Now().Add(l.poll).Before(deadline) {
			return nil, ErrLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}
}

func (l *RedisLock) unlock(token string) Unlock {
	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			err = l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err()
		})
		return err
	}
}

// LocalLock serializes callers within one process
type LocalLock struct {
	sem chan struct{}
}

func NewLocalLock() *LocalLock {
	return &LocalLock{sem: make(chan struct{}, 1)}
}

func (l *LocalLock) Acquire(ctx context.Context, wait time.Duration) (Unlock, error) {
	select {
	case l.sem <- struct{}{}:
	default:
		if err := l.waitFor(ctx, wait); err != nil {
			return nil, err
		}
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-l.sem })
		return nil
	}, nil
}

func (l *LocalLock) waitFor(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrLockBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}
