package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"voice-arena-go/internal/platform/errors"
	"voice-arena-go/internal/platform/logging"
)

const cacheKeyProviders = "providers:tts"

// MetadataCache 供应商元数据缓存，redis不可用时为nil
type MetadataCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Client 托管TTS接口客户端，负责拉取供应商元数据
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      MetadataCache
	cacheTTL   time.Duration
	logger     *logging.Logger
}

// NewClient 创建供应商元数据客户端
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithCache 启用元数据缓存
func (c *Client) WithCache(cache MetadataCache, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

// FetchProviders 拉取全部供应商的音色元数据。force为true时跳过缓存。
func (c *Client) FetchProviders(ctx context.Context, force bool) ([]Info, error) {
	if c.cache != nil && !force {
		if data, ok, err := c.cache.Get(ctx, cacheKeyProviders); err != nil {
			c.logger.WarnTag("缓存", "读取供应商缓存失败: %v", err)
		} else if ok {
			var resp Response
			if err := sonic.Unmarshal(data, &resp); err == nil {
				return resp.ProviderList, nil
			}
			c.logger.WarnTag("缓存", "供应商缓存内容损坏，回源拉取")
		}
	}

	data, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.KindProvider, "providers.decode", "解析供应商响应失败", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKeyProviders, data, c.cacheTTL); err != nil {
			c.logger.WarnTag("缓存", "写入供应商缓存失败: %v", err)
		}
	}

	return resp.ProviderList, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	url := c.baseURL + "/302/tts/provider"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindProvider, "providers.request", "构造请求失败", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindProvider, "providers.fetch", "请求供应商接口失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.New(errors.KindProvider, "providers.fetch",
			fmt.Sprintf("供应商接口返回异常状态 %d: %s", resp.StatusCode, body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.KindProvider, "providers.read", "读取响应失败", err)
	}
	return data, nil
}
