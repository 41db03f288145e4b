package reputation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/collection"
)

const (
	DefaultScanTTL     = 5 * time.Minute
	DefaultScanLimit   = 10000
	DefaultScanTimeout = 2 * time.Minute
)

// ScanCache 按钱包地址缓存评分结果.
// 同一地址的并发请求共享一次计算 (single-flight), 失败结果不缓存
type ScanCache struct {
	cache *collection.Cache
}

func NewScanCache(ttl time.Duration, limit int) (*ScanCache, error) {
	if ttl <= 0 {
		ttl = DefaultScanTTL
	}
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	c, err := collection.NewCache(ttl, collection.WithLimit(limit), collection.WithName("wallet-scan"))
	if err != nil {
		return nil, errors.Wrap(err, "failed on create scan cache")
	}
	return &ScanCache{cache: c}, nil
}

// Take 命中缓存直接返回, 否则调用 compute
func (c *ScanCache) Take(address string, compute func() (*Report, error)) (*Report, error) {
	v, err := c.cache.Take(address, func() (any, error) {
		return compute()
	})
	if err != nil {
		return nil, err
	}
	report, ok := v.(*Report)
	if !ok {
		return nil, errors.New("unexpected scan cache entry")
	}
	return report, nil
}

func (c *ScanCache) Invalidate(address string) {
	c.cache.Del(address)
}

// CachedEngine 在 Engine 前加一层 ScanCache
type CachedEngine struct {
	engine  *Engine
	cache   *ScanCache
	timeout time.Duration
}

func NewCachedEngine(engine *Engine, cache *ScanCache) *CachedEngine {
	return &CachedEngine{engine: engine, cache: cache, timeout: DefaultScanTimeout}
}

type scanResult struct {
	report *Report
	err    error
}

// Evaluate 共享的计算不跟随任何一个调用方的 ctx 取消, 只受 timeout 限制;
// 每个调用方只按自己的 ctx 等待结果
func (c *CachedEngine) Evaluate(ctx context.Context, address string) (*Report, error) {
	done := make(chan scanResult, 1)
	go func() {
		report, err := c.cache.Take(address, func() (*Report, error) {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
			defer cancel()
			return c.engine.Evaluate(sctx, address)
		})
		done <- scanResult{report: report, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.report, r.err
	}
}
