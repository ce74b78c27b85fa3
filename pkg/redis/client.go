package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound 鍵不存在 (或已過期)
var ErrKeyNotFound = errors.New("redis: key not found")

// Config 定義 Redis 連線配置
type Config struct {
	Addr        string        // Redis 伺服器地址 (e.g., "localhost:6379")
	Password    string        // Redis 密碼 (若無則留空)
	DB          int           // 使用的資料庫編號
	DialTimeout time.Duration // 連線逾時 (0 使用 go-redis 預設值)
}

// Client 封裝 redis.Client 以提供更簡易的介面
type Client struct {
	rdb *redis.Client
}

// NewClient 建立 Redis 客戶端並 Ping 一次確認連線
//
// 參數:
//
//	ctx: context.Context - 用於限制 Ping 的時間
//	cfg: Config - Redis 連線配置資訊
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Addr, err)
	}

	return &Client{rdb: rdb}, nil
}

// Close 關閉 Redis 連線
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetStruct 將結構體序列化為 JSON 並儲存到 Redis
//
// 參數:
//
//	key: string - Redis 鍵
//	value: any - 要儲存的結構體 (必須能被 json.Marshal)
//	expiration: ...time.Duration - (選填) 過期時間，不填則不過期
func (c *Client) SetStruct(ctx context.Context, key string, value any, expiration ...time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	var exp time.Duration
	if len(expiration) > 0 {
		exp = expiration[0]
	}

	return c.rdb.Set(ctx, key, data, exp).Err()
}

// GetStruct 讀取 JSON 並反序列化到 dest，鍵不存在時回傳 ErrKeyNotFound
func (c *Client) GetStruct(ctx context.Context, key string, dest any) error {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// Expire 重設鍵的過期時間。
// 回傳 false 代表鍵已不存在。
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return c.rdb.Expire(ctx, key, expiration).Result()
}

// Del 刪除鍵 (不存在也不算錯誤)
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Exists 鍵是否存在
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
