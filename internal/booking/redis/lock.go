// Package redis implements the per-event reservation lock on Redis SetNX, for
// deployments running more than one booking-service instance against the same
// store. The lock key carries an owner token so a release can never drop a
// lock that has already expired and been re-acquired by someone else.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const lockKeyPrefix = "event_lock:"

// retryInterval is how often a blocked acquirer re-attempts SetNX.
const retryInterval = 25 * time.Millisecond

type EventLock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewEventLock(client *redis.Client, ttl time.Duration) *EventLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &EventLock{Client: client, TTL: ttl}
}

// LockEvent spins on SetNX until the event lock is acquired or the context
// ends. The TTL bounds how long a crashed holder can wedge an event.
func (l *EventLock) LockEvent(ctx context.Context, eventID string) (func(), error) {
	key := lockKeyPrefix + eventID
	token := uuid.NewString()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lock %s: %w", key, ctx.Err())
		case <-time.After(retryInterval):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		val, err := l.Client.Get(ctx, key).Result()
		if err == redis.Nil {
			return // expired, nothing to release
		}
		if err != nil {
			return
		}
		if val == token {
			l.Client.Del(ctx, key)
		}
	}
	return release, nil
}
