package ratelimit

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis shares attempt counters across replicas. On Redis errors it fails open.
type Redis struct {
	client *redis.Client
	opts   Options
	log    *logrus.Logger
}

func NewRedis(client *redis.Client, opts Options, log *logrus.Logger) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = "ratelimit:"
	}
	return &Redis{client: client, opts: opts, log: log}
}

func (r *Redis) Allow(ctx context.Context, key string) bool {
	k := r.opts.Prefix + key

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("rate limiter unavailable, allowing request")
		return true
	}
	if n == 1 {
		if err := r.client.Expire(ctx, k, r.opts.Window).Err(); err != nil {
			r.log.WithError(err).WithField("key", key).Warn("rate limiter expire failed")
		}
	}
	return n <= int64(r.opts.Limit)
}

func (r *Redis) Reset(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.opts.Prefix+key).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("rate limiter reset failed")
	}
}
