package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sandevgo/climaqa/internal/config"
	"github.com/sandevgo/climaqa/pkg/log"
)

const (
	keyPrefix    = "climaqa:session-lock:"
	pollInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes sessions across processes with SET NX PX.
type Locker struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewLocker(client goredis.UniversalClient, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// NewClient connects and pings the configured server.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Lock blocks until the session is free or ctx is done. The lock expires
// after the TTL even if unlock is never called.
func (l *Locker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := keyPrefix + sessionID
	token := uuid.NewString()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// release must run even when the ask context is already cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
		if err != nil && !errors.Is(err, goredis.Nil) {
			log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).Msg("failed to release session lock")
		}
	}, nil
}
