package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

func GetRedisConfig() *RedisConfig {
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.dial_timeout", 2*time.Second)

	return &RedisConfig{
		Enabled:     viper.GetBool("redis.enabled"),
		Host:        viper.GetString("redis.host"),
		Port:        viper.GetString("redis.port"),
		Password:    viper.GetString("redis.password"),
		DB:          viper.GetInt("redis.db"),
		DialTimeout: viper.GetDuration("redis.dial_timeout"),
	}
}

// InitRedis connects to Redis. It returns nil when Redis is disabled or
// unreachable, and callers fall back to in-process coordination.
func InitRedis() *redis.Client {
	config := GetRedisConfig()
	if !config.Enabled {
		log.Println("Redis disabled, bridge lock is process-local")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        config.Host + ":" + config.Port,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed, continuing without Redis: %v", err)
		rdb.Close()
		return nil
	}

	log.Println("Redis connection established")
	return rdb
}
