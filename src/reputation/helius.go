package reputation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/common/utils"
)

const (
	DefaultHeliusAPIBase = "https://api-mainnet.helius-rpc.com"
	DefaultHeliusRPCBase = "https://mainnet.helius-rpc.com"
	assetPageLimit       = 1000
)

var ErrIndexerNotConfigured = errors.New("helius api key is not configured")

// TransactionIndexer 分页获取交易
type TransactionIndexer interface {
	FetchTransactionPage(ctx context.Context, address, before string, limit int) ([]TransactionRecord, error)
}

// AssetIndexer 获取钱包持有的资产
type AssetIndexer interface {
	FetchAssetsByOwner(ctx context.Context, address string) ([]Asset, error)
}

// Indexer 评分需要的全部索引能力
type Indexer interface {
	TransactionIndexer
	AssetIndexer
}

// HeliusConfig Helius 索引服务配置
type HeliusConfig struct {
	APIKey        string        `toml:"api_key" mapstructure:"api_key" json:"api_key"`
	APIBase       string        `toml:"api_base" mapstructure:"api_base" json:"api_base"`
	RPCURL        string        `toml:"rpc_url" mapstructure:"rpc_url" json:"rpc_url"` // 为空时使用 mainnet.helius-rpc.com/?api-key=
	Timeout       time.Duration `toml:"timeout" mapstructure:"timeout" json:"timeout"`
	RetryAttempts int           `toml:"retry_attempts" mapstructure:"retry_attempts" json:"retry_attempts"`
	RetrySleep    time.Duration `toml:"retry_sleep" mapstructure:"retry_sleep" json:"retry_sleep"`
}

// HeliusClient 基于 Helius REST / DAS RPC 的索引客户端
// 连接级别的超时和重试在这里处理, 评分逻辑不关心
type HeliusClient struct {
	cfg  HeliusConfig
	http *http.Client
}

func NewHeliusClient(cfg HeliusConfig) *HeliusClient {
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultHeliusAPIBase
	}
	if cfg.RPCURL == "" && cfg.APIKey != "" {
		cfg.RPCURL = DefaultHeliusRPCBase + "/?api-key=" + url.QueryEscape(cfg.APIKey)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	return &HeliusClient{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// statusError 非 2xx 响应
type statusError struct {
	op     string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("helius %s failed: %d", e.op, e.status)
}

// retryable 5xx 与 429 重试, 其它 4xx 直接返回
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 500 || se.status == http.StatusTooManyRequests
	}
	return true
}

func (c *HeliusClient) do(ctx context.Context, op string, newReq func() (*http.Request, error), out interface{}) error {
	var permanent error
	err := utils.Retry(ctx, "helius "+op, c.cfg.RetryAttempts, c.cfg.RetrySleep, func() error {
		req, err := newReq()
		if err != nil {
			permanent = err
			return nil
		}
		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			se := &statusError{op: op, status: resp.StatusCode}
			if !retryable(se) {
				permanent = se
				return nil
			}
			return se
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			permanent = errors.Wrapf(err, "helius %s response invalid", op)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return permanent
}

// FetchTransactionPage GET /v0/addresses/{address}/transactions, before 为上一页最后一笔交易的签名
func (c *HeliusClient) FetchTransactionPage(ctx context.Context, address, before string, limit int) ([]TransactionRecord, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrIndexerNotConfigured
	}

	q := url.Values{}
	q.Set("api-key", c.cfg.APIKey)
	q.Set("limit", strconv.Itoa(limit))
	if before != "" {
		q.Set("before", before)
	}
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.cfg.APIBase, url.PathEscape(address), q.Encode())

	var raw json.RawMessage
	err := c.do(ctx, "transactions fetch", func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, endpoint, nil)
	}, &raw)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("helius transactions response invalid")
	}
	var txs []TransactionRecord
	if err := json.Unmarshal(trimmed, &txs); err != nil {
		return nil, errors.Wrap(err, "helius transactions response invalid")
	}
	return txs, nil
}

// FetchAssetsByOwner 先走 REST 接口, 失败时回退到 DAS getAssetsByOwner
func (c *HeliusClient) FetchAssetsByOwner(ctx context.Context, address string) ([]Asset, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrIndexerNotConfigured
	}

	assets, err := c.fetchAssetsREST(ctx, address)
	if err == nil {
		return assets, nil
	}
	xzap.WithContext(ctx).Warn("helius assets rest failed, fallback to rpc", zap.Error(err))
	return c.fetchAssetsRPC(ctx, address)
}

func (c *HeliusClient) fetchAssetsREST(ctx context.Context, address string) ([]Asset, error) {
	q := url.Values{}
	q.Set("api-key", c.cfg.APIKey)
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(assetPageLimit))
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/assets?%s", c.cfg.APIBase, url.PathEscape(address), q.Encode())

	var page assetPage
	err := c.do(ctx, "assets fetch", func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, endpoint, nil)
	}, &page)
	if err != nil {
		return nil, err
	}
	return decodeAssets(page.Items), nil
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcAssetsResponse struct {
	Result *assetPage `json:"result"`
	Error  *rpcError  `json:"error"`
}

func (c *HeliusClient) fetchAssetsRPC(ctx context.Context, address string) ([]Asset, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "helius-assets",
		Method:  "getAssetsByOwner",
		Params: map[string]interface{}{
			"ownerAddress": address,
			"page":         1,
			"limit":        assetPageLimit,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on marshal rpc request")
	}

	var resp rpcAssetsResponse
	err = c.do(ctx, "rpc assets fetch", func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.RPCURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("content-type", "application/json")
		return req, nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		msg := resp.Error.Message
		if msg == "" {
			msg = strconv.Itoa(resp.Error.Code)
		}
		return nil, errors.Errorf("helius rpc assets fetch failed: %s", msg)
	}
	if resp.Result == nil {
		return []Asset{}, nil
	}
	return decodeAssets(resp.Result.Items), nil
}

// decodeAssets 跳过无法解析的条目
func decodeAssets(items []json.RawMessage) []Asset {
	assets := make([]Asset, 0, len(items))
	for _, raw := range items {
		var a Asset
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		assets = append(assets, a)
	}
	return assets
}
