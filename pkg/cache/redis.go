package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultFavouritesKey is the Redis set holding favourite ids.
const DefaultFavouritesKey = "favourite_umamusumes"

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisFavourites stores the favourite set as a Redis set of decimal ids.
type RedisFavourites struct {
	client *goredis.Client
	key    string
}

var _ uma.FavouritesPersistence = (*RedisFavourites)(nil)

// NewRedisFavourites connects and pings Redis before returning.
func NewRedisFavourites(cfg RedisConfig) (*RedisFavourites, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisFavouritesFromClient(client, cfg.Key), nil
}

// NewRedisFavouritesFromClient wraps an existing client.
func NewRedisFavouritesFromClient(client *goredis.Client, key string) *RedisFavourites {
	if key == "" {
		key = DefaultFavouritesKey
	}
	return &RedisFavourites{client: client, key: key}
}

// Load reads the set; a missing key is an empty set.
func (r *RedisFavourites) Load(ctx context.Context) (shared.FavouriteSet, error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers %s: %w", r.key, err)
	}

	set := make(shared.FavouriteSet, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("redis set %s holds non-integer member %q", r.key, m)
		}
		set.Add(id)
	}
	return set, nil
}

// Save replaces the set atomically with DEL and SADD inside MULTI/EXEC.
func (r *RedisFavourites) Save(ctx context.Context, set shared.FavouriteSet) error {
	ids := set.IDs()
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = strconv.Itoa(id)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(members) > 0 {
			pipe.SAdd(ctx, r.key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace %s: %w", r.key, err)
	}
	return nil
}

// Close releases the client connection pool.
func (r *RedisFavourites) Close() error {
	return r.client.Close()
}
