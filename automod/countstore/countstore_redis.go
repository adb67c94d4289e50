package countstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisCountPrefix string = "count/"
var redisDistinctPrefix string = "distinct/"

type RedisCountStore struct {
	Client *redis.Client
}

func NewRedisCountStore(redisURL string) (*RedisCountStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	rcs := RedisCountStore{
		Client: rdb,
	}
	return &rcs, nil
}

func periodTTL(period string) time.Duration {
	switch period {
	case PeriodMinute:
		return 2 * time.Minute
	case PeriodHour:
		return 2 * time.Hour
	case PeriodDay:
		return 48 * time.Hour
	default:
		return 0
	}
}

func (s *RedisCountStore) GetCount(ctx context.Context, name, val, period string) (int, error) {
	key := redisCountPrefix + periodBucket(name, val, period)
	c, err := s.Client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return c, nil
}

func (s *RedisCountStore) Increment(ctx context.Context, name, val string) error {
	// increment all period buckets in a single redis round-trip
	multi := s.Client.Pipeline()
	for _, p := range allPeriods {
		key := redisCountPrefix + periodBucket(name, val, p)
		multi.Incr(ctx, key)
		if ttl := periodTTL(p); ttl > 0 {
			multi.Expire(ctx, key, ttl)
		}
	}
	_, err := multi.Exec(ctx)
	return err
}

func (s *RedisCountStore) GetCountDistinct(ctx context.Context, name, bucket, period string) (int, error) {
	key := redisDistinctPrefix + periodBucket(name, bucket, period)
	c, err := s.Client.PFCount(ctx, key).Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return int(c), nil
}

func (s *RedisCountStore) IncrementDistinct(ctx context.Context, name, bucket, val string) error {
	multi := s.Client.Pipeline()
	for _, p := range allPeriods {
		key := redisDistinctPrefix + periodBucket(name, bucket, p)
		multi.PFAdd(ctx, key, val)
		if ttl := periodTTL(p); ttl > 0 {
			multi.Expire(ctx, key, ttl)
		}
	}
	_, err := multi.Exec(ctx)
	return err
}
