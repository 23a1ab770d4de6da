package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript só apaga a chave se ela ainda pertencer a quem travou.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type Redis struct {
	rdb     *redis.Client
	ttl     time.Duration
	retry   time.Duration
	maxWait time.Duration
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{
		rdb:     rdb,
		ttl:     10 * time.Second,
		retry:   50 * time.Millisecond,
		maxWait: 5 * time.Second,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, r.maxWait)
	defer cancel()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, err
		}
		if ok {
			return func() {
				// contexto próprio: a requisição pode já ter sido cancelada
				relCtx, relCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer relCancel()
				releaseScript.Run(relCtx, r.rdb, []string{key}, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}
}
