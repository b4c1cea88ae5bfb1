package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func RedisAddress() string {
	return GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
}

func InitRedisServer(ctx context.Context) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     RedisAddress(),
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       0,
	})

	_, err := client.Ping(ctx).Result()
	if err != nil {
		panic(err)
	}

	return client
}

// ConnectRedisIfConfigured connects only when REDIS_ADDRESS is set. It returns
// a nil client when the variable is absent and an error when the ping fails.
func ConnectRedisIfConfigured(ctx context.Context) (*redis.Client, error) {
	if GetEnv("REDIS_ADDRESS") == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     RedisAddress(),
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", RedisAddress(), err)
	}
	return client, nil
}
