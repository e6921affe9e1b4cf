package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Pinger checks whether a networked storage backend answers.
type Pinger func(ctx context.Context) error

// WaitFor pings a backend until it answers or the attempts run out.
func WaitFor(ctx context.Context, name string, ping Pinger, attempts int, interval time.Duration) error {
	slog.Info("Waiting for storage backend to be ready...", "backend", name)
	var err error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = ping(pingCtx)
		cancel()
		if err == nil {
			slog.Info("Storage backend is ready.", "backend", name)
			return nil
		}
		slog.Debug("Storage backend not ready yet, retrying...", "backend", name, "attempt", i+1, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%s not reachable after %d attempts: %w", name, attempts, err)
}

// ConnectRedis creates a client for addr and waits for it to answer.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	if err := WaitFor(ctx, "redis", ping, 10, 3*time.Second); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// ConnectMongo creates a client for uri and waits for the primary to answer.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := WaitFor(ctx, "mongo", ping, 10, 3*time.Second); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
