package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"restaurantapp/backend/config"
)

// Client Redis 客户端封装
// 当前用于 Token 黑名单、接口限流和时段网格缓存
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 接口限流 ──

// CheckRateLimit 固定窗口计数器限流
// 窗口内首次请求时设置过期时间，计数超过 limit 返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// ── 时段网格缓存 ──
// 某门店某日的可订时段网格读多写少，按 branch+date 缓存，
// 预订状态变化时整键失效，下次查询重算。

const slotGridPrefix = "slots:"

func slotGridKey(branchID, date string) string {
	return slotGridPrefix + branchID + ":" + date
}

// GetSlotGrid 读取缓存的时段网格，未命中返回 (false, nil)
func (c *Client) GetSlotGrid(ctx context.Context, branchID, date string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, slotGridKey(branchID, date)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetSlotGrid 写入时段网格缓存
func (c *Client) SetSlotGrid(ctx context.Context, branchID, date string, grid any, ttl time.Duration) error {
	raw, err := json.Marshal(grid)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, slotGridKey(branchID, date), raw, ttl).Err()
}

// InvalidateSlotGrid 预订创建/取消后使对应门店当日缓存失效
func (c *Client) InvalidateSlotGrid(ctx context.Context, branchID, date string) error {
	return c.rdb.Del(ctx, slotGridKey(branchID, date)).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
