package client

import (
	"context"
	"errors"
	"time"

	"laurent/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds the process-wide connections. Redis is optional and stays nil
// when no REDIS_URL is configured.
type Client struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

// SetRedis connects to Redis. A failed ping is logged and leaves Redis unset so
// callers fall back to in-process stores.
func (c *Client) SetRedis(log *logger.Logger, redisURL string, connTimeout time.Duration) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Error("Invalid Redis URL, continuing without Redis", "error", err)
		return
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Failed to ping Redis, continuing without Redis", "error", err)
		_ = rdb.Close()
		return
	}

	log.Info("Successfully connected to Redis", "addr", opts.Addr)
	c.Redis = rdb
}

// Ping reports whether the backing stores are reachable. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	if c.Mongo == nil {
		return errors.New("mongo client not initialized")
	}
	if err := c.Mongo.Ping(ctx, nil); err != nil {
		return err
	}
	if c.Redis != nil {
		return c.Redis.Ping(ctx).Err()
	}
	return nil
}

func (c *Client) GracefulShutdown(log *logger.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("Disconnected from MongoDB")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		} else {
			log.Info("Closed Redis client")
		}
	}
}
