package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tradelink-chat/pkg/logger"
)

// ConnectLimiter throttles WebSocket connection attempts per identity
// using a fixed-window counter in Redis. Key pattern:
// ratelimit:{user_id}:connects with the window as TTL.
type ConnectLimiter struct {
	client *goredis.Client
	limit  int
	window time.Duration
	logger *logger.Logger
}

func NewConnectLimiter(client *goredis.Client, limit int, l *logger.Logger) *ConnectLimiter {
	if l == nil {
		l = logger.NewNop()
	}
	return &ConnectLimiter{
		client: client,
		limit:  limit,
		window: time.Minute,
		logger: l,
	}
}

var allowScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')
	if current >= limit then
		return 0
	end

	current = redis.call('INCR', key)
	if current == 1 then
		redis.call('EXPIRE', key, window)
	end
	return 1
`)

// AllowConnect reports whether the identity may open another connection
// in the current window. A Redis failure allows the connection (fail
// open) so the limiter never takes chat down with it.
func (l *ConnectLimiter) AllowConnect(ctx context.Context, userID string) bool {
	key := fmt.Sprintf("ratelimit:%s:connects", userID)

	result, err := allowScript.Run(ctx, l.client, []string{key}, l.limit, int(l.window.Seconds())).Int64()
	if err != nil {
		l.logger.Logger.Warn("connect rate limit check failed, allowing",
			zap.String("user_id", userID),
			zap.Error(err))
		return true
	}
	return result == 1
}
