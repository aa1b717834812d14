package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis"
	"github.com/talitamaia0609-debug/siter/pkg/config"
)

// NewRedis connects to the redis holding the dashboard session ids. It fails if the server can't be
// reached.
func NewRedis(logger *slog.Logger, c config.Redis) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: 5 * time.Second,
	})

	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %v", addr, err)
	}

	logger.Info("Connected to redis", "addr", addr, "db", c.DB)
	return client, nil
}
