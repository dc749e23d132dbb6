package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/ksoeasyxiaosi/expert-selection-system/pkg/errors"
	"github.com/ksoeasyxiaosi/expert-selection-system/pkg/redis"
)

// Locker 按需求串行化抽取类操作
// Acquire 成功时返回释放函数；在等待期限内未获得锁返回 pkgerrors.ErrLockNotObtained
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

func requirementLockKey(requirementID string) string {
	return "lock:requirement:" + requirementID
}

// ── 进程内锁 ──

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	wait  time.Duration
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker 创建进程内按 key 互斥的锁（单机桌面场景）
func NewLocalLocker(wait time.Duration) Locker {
	return &localLocker{locks: make(map[string]*keyLock), wait: wait}
}

func (l *localLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case kl.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-kl.ch
				l.unref(key, kl)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key, kl)
		return nil, pkgerrors.ErrLockNotObtained
	}
}

func (l *localLocker) unref(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// ── Redis 分布式锁 ──

type redisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisLocker 基于 Redis 的锁，多个服务实例共享同一数据库时使用
func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, logger *zap.Logger) Locker {
	return &redisLocker{rdb: rdb, ttl: ttl, wait: wait, logger: logger}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	release, err := l.rdb.Obtain(ctx, key, l.ttl, l.wait)
	if err != nil {
		return nil, err
	}
	return func() {
		// 释放使用独立上下文，请求取消后仍需归还锁
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := release(rctx); err != nil {
			l.logger.Warn("释放需求锁失败", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
