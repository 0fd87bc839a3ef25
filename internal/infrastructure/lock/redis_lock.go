package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

var _ ports.Locker = (*RedisLocker)(nil)

// releaseScript borra la llave solo si sigue siendo nuestra.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker lock entre procesos con SET NX + TTL.
type RedisLocker struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisLocker conecta a Redis desde una URL redis://.
func NewRedisLocker(ctx context.Context, redisURL string, log *logger.Logger) (*RedisLocker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisLocker{client: client, log: log}, nil
}

// TryLock toma key por ttl si está libre.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("tomar lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	unlock := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("lock", key).Msg("no se pudo liberar el lock")
		}
	}
	return unlock, true, nil
}

// Close cierra la conexión.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// Noop siempre concede el lock (un solo proceso, sin Redis).
type Noop struct{}

// TryLock concede siempre.
func (Noop) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
var _ ports.Locker = Noop{}
