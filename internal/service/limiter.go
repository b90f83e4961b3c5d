package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter tracks failed OTP verifications per challan and locks out
// further attempts once the cap is hit
type AttemptLimiter interface {
	// Allowed reports whether another verification may proceed
	Allowed(ctx context.Context, tenantID, challanNo string) (bool, error)
	// RecordFailure counts one failed attempt
	RecordFailure(ctx context.Context, tenantID, challanNo string) error
	// Reset clears the counter after a successful verification
	Reset(ctx context.Context, tenantID, challanNo string) error
}

// RedisAttemptLimiter backs the limiter with a Redis counter that expires on
// its own after the lockout window
type RedisAttemptLimiter struct {
	client      *redis.Client
	maxAttempts int
	lockout     time.Duration
}

// NewRedisAttemptLimiter creates a new RedisAttemptLimiter
func NewRedisAttemptLimiter(client *redis.Client, maxAttempts int, lockout time.Duration) *RedisAttemptLimiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RedisAttemptLimiter{client: client, maxAttempts: maxAttempts, lockout: lockout}
}

func attemptKey(tenantID, challanNo string) string {
	return fmt.Sprintf("otp:attempts:%s:%s", tenantID, challanNo)
}

func (l *RedisAttemptLimiter) Allowed(ctx context.Context, tenantID, challanNo string) (bool, error) {
	count, err := l.client.Get(ctx, attemptKey(tenantID, challanNo)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read otp attempt counter: %w", err)
	}
	return count < l.maxAttempts, nil
}

func (l *RedisAttemptLimiter) RecordFailure(ctx context.Context, tenantID, challanNo string) error {
	key := attemptKey(tenantID, challanNo)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("increment otp attempt counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.lockout).Err(); err != nil {
			return fmt.Errorf("set otp attempt counter expiry: %w", err)
		}
	}
	return nil
}

func (l *RedisAttemptLimiter) Reset(ctx context.Context, tenantID, challanNo string) error {
	return l.client.Del(ctx, attemptKey(tenantID, challanNo)).Err()
}

// MemoryAttemptLimiter is an in-process limiter for tests and single-node
// development runs
type MemoryAttemptLimiter struct {
	mu          sync.Mutex
	counts      map[string]int
	expiries    map[string]time.Time
	maxAttempts int
	lockout     time.Duration
}

// NewMemoryAttemptLimiter creates a new MemoryAttemptLimiter
func NewMemoryAttemptLimiter(maxAttempts int, lockout time.Duration) *MemoryAttemptLimiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MemoryAttemptLimiter{
		counts:      make(map[string]int),
		expiries:    make(map[string]time.Time),
		maxAttempts: maxAttempts,
		lockout:     lockout,
	}
}

func (l *MemoryAttemptLimiter) Allowed(_ context.Context, tenantID, challanNo string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := attemptKey(tenantID, challanNo)
	if exp, ok := l.expiries[key]; ok && time.Now().After(exp) {
		delete(l.counts, key)
		delete(l.expiries, key)
	}
	return l.counts[key] < l.maxAttempts, nil
}

func (l *MemoryAttemptLimiter) RecordFailure(_ context.Context, tenantID, challanNo string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := attemptKey(tenantID, challanNo)
	if l.counts[key] == 0 {
		l.expiries[key] = time.Now().Add(l.lockout)
	}
	l.counts[key]++
	return nil
}

func (l *MemoryAttemptLimiter) Reset(_ context.Context, tenantID, challanNo string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := attemptKey(tenantID, challanNo)
	delete(l.counts, key)
	delete(l.expiries, key)
	return nil
}
