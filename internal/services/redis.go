package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/moride/moride-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	recentMessagesKey = "chat:recent-messages"
	recentMessagesTTL = time.Minute
	presenceChannel   = "chat:presence"
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheRecentMessages stores the recent-message backlog in Redis
func CacheRecentMessages(ctx context.Context, messages []models.ChatMessage) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, recentMessagesKey, data, recentMessagesTTL).Err()
}

// CachedRecentMessages retrieves the recent-message backlog from Redis
func CachedRecentMessages(ctx context.Context) ([]models.ChatMessage, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, recentMessagesKey).Result()
	if err != nil {
		return nil, err
	}

	var messages []models.ChatMessage
	if err := json.Unmarshal([]byte(data), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// InvalidateRecentMessages drops the cached backlog after a new message lands
func InvalidateRecentMessages(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, recentMessagesKey).Err()
}

// PublishPresence publishes a presence transition to Redis pub/sub
func PublishPresence(ctx context.Context, userID uint, online bool) error {
	if RedisClient == nil {
		return nil
	}
	payload := map[string]interface{}{
		"userId":    userID,
		"online":    online,
		"timestamp": time.Now().Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, presenceChannel, data).Err()
}
