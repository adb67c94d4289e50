package flagstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

var redisFlagPrefix string = "flag/"

type RedisFlagStore struct {
	Client *redis.Client
}

func NewRedisFlagStore(redisURL string) (*RedisFlagStore, error) {
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
	fs := RedisFlagStore{
		Client: rdb,
	}
	return &fs, nil
}

func (s *RedisFlagStore) Get(ctx context.Context, key string) ([]string, error) {
	l, err := s.Client.SMembers(ctx, redisFlagPrefix+key).Result()
	if err == redis.Nil {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *RedisFlagStore) Add(ctx context.Context, key string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	vals := make([]interface{}, len(flags))
	for i, f := range flags {
		vals[i] = f
	}
	return s.Client.SAdd(ctx, redisFlagPrefix+key, vals...).Err()
}

func (s *RedisFlagStore) Remove(ctx context.Context, key string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	vals := make([]interface{}, len(flags))
	for i, f := range flags {
		vals[i] = f
	}
	return s.Client.SRem(ctx, redisFlagPrefix+key, vals...).Err()
}
