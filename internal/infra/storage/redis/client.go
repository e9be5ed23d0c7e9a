package redis

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// client wraps a single redis connection backing the token metadata cache.
type client struct {
	conn *redis.Client
}

// Close releases the underlying connection.
func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to redis and verifies the connection with a ping before
// handing it out.
func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{
		conn: conn,
	}, nil
}
