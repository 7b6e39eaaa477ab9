package job

import (
	"context"
	"errors"
	"time"

	"cloudrent/pkg/log"

	"github.com/duke-git/lancet/v2/random"
	"github.com/go-co-op/gocron"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var ErrLockHeld = errors.New("job lock held by another instance")

const lockPrefix = "cloudrent:job:"

// unlockScript deletes the key only while it still carries our token, so a lock
// that expired and was taken over is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewLocker returns a redis backed gocron.Locker, or nil without redis.
// Replicas sharing one redis then run each scheduled job once.
func NewLocker(conf *viper.Viper, logger *log.Logger, client *redis.Client) gocron.Locker {
	if client == nil {
		return nil
	}
	ttl := conf.GetDuration("rental.sweep.lock_ttl")
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisLocker{client: client, ttl: ttl, logger: logger}
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func (l *redisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	token, err := random.UUIdV4()
	if err != nil {
		return nil, err
	}
	key = lockPrefix + key
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		l.logger.Debug("job lock not acquired", zap.String("key", key))
		return nil, ErrLockHeld
	}
	return &redisLock{client: l.client, key: key, token: token}, nil
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLock) Unlock(ctx context.Context) error {
	return unlockScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}
