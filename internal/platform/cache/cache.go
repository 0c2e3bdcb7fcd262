package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"voice-arena-go/internal/platform/errors"
)

// Cache redis键值缓存，用于缓存供应商元数据等短生命周期数据
type Cache struct {
	client *redis.Client
	prefix string
}

// Options 缓存连接参数
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// New 创建缓存实例并检查连通性
func New(ctx context.Context, opts Options) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "cache.ping", "redis连接失败", err)
	}

	return &Cache{client: client, prefix: opts.Prefix}, nil
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get 读取缓存，未命中返回 (nil, false, nil)
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.KindStorage, "cache.get", "读取缓存失败", err)
	}
	return data, true, nil
}

// Set 写入缓存
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return errors.Wrap(errors.KindStorage, "cache.set", "写入缓存失败", err)
	}
	return nil
}

// Delete 删除缓存键
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return errors.Wrap(errors.KindStorage, "cache.delete", "删除缓存失败", err)
	}
	return nil
}

// Close 关闭连接
func (c *Cache) Close() error {
	return c.client.Close()
}
