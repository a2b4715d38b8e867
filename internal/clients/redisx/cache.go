package redisx

import (
  "context"
  "encoding/json"
  "errors"
  "strings"
  "time"

  "github.com/redis/go-redis/v9"
  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/utils"
)

// Cache is a thin JSON read-through cache over redis. All methods are nil-safe
// so callers can treat an unconfigured redis as a permanent miss.
type Cache struct {
  client  *redis.Client
  log     *logger.Logger
  ttl     time.Duration
}

// New returns nil when REDIS_ADDR is unset; caching is optional.
func New(log *logger.Logger) *Cache {
  serviceLog := log.With("client", "RedisCache")
  addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
  if addr == "" {
    serviceLog.Info("REDIS_ADDR not set, caching disabled")
    return nil
  }
  password := utils.GetEnv("REDIS_PASSWORD", "", log)
  db := utils.GetEnvAsInt("REDIS_DB", 0, log)
  ttlSec := utils.GetEnvAsInt("REDIS_CACHE_TTL_SECONDS", 15, log)

  client := redis.NewClient(&redis.Options{
    Addr:     addr,
    Password: password,
    DB:       db,
  })
  return &Cache{
    client: client,
    log:    serviceLog,
    ttl:    time.Duration(ttlSec) * time.Second,
  }
}

func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
  if c == nil || c.client == nil {
    return false, nil
  }
  raw, err := c.client.Get(ctx, key).Bytes()
  if errors.Is(err, redis.Nil) {
    return false, nil
  }
  if err != nil {
    return false, err
  }
  if err := json.Unmarshal(raw, out); err != nil {
    return false, err
  }
  return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, val interface{}) error {
  if c == nil || c.client == nil {
    return nil
  }
  raw, err := json.Marshal(val)
  if err != nil {
    return err
  }
  return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
  if c == nil || c.client == nil {
    return nil
  }
  return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
  if c == nil || c.client == nil {
    return nil
  }
  return c.client.Close()
}
