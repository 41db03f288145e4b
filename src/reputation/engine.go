package reputation

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/feralaibot/Feral-Ai-website/src/common/utils"
)

// TokenHolding 同质化代币持仓
type TokenHolding struct {
	Mint     string  `json:"mint"`
	Amount   float64 `json:"amount"`
	Decimals int     `json:"decimals"`
}

type NFTHolding struct {
	Mint string `json:"mint"`
}

// Snapshot 钱包当前持仓快照
type Snapshot struct {
	Address            string         `json:"address"`
	Tokens             []TokenHolding `json:"tokens"`
	NFTs               []NFTHolding   `json:"nfts"`
	TotalTokenAccounts int            `json:"totalTokenAccounts"`
	DistinctTokenMints int            `json:"distinctTokenMints"`
	NFTCount           int            `json:"nftCount"`
}

// Reputation 评分结果
type Reputation struct {
	Score   int     `json:"score"`
	Label   Label   `json:"label"`
	Metrics Metrics `json:"metrics"`
}

// Report 对外输出 {snapshot, reputation}
type Report struct {
	Snapshot   Snapshot   `json:"snapshot"`
	Reputation Reputation `json:"reputation"`
}

// Engine 钱包评分: 拉取交易 -> 提取信号 -> 计分 -> 标签
type Engine struct {
	indexer    Indexer
	aggregator *TransactionAggregator
	policy     Policy
	now        func() time.Time
}

type EngineOption func(*Engine)

// WithPaging 设置单页数量和最大页数
func WithPaging(pageLimit, maxPages int) EngineOption {
	return func(e *Engine) {
		e.aggregator = NewTransactionAggregator(e.indexer, pageLimit, maxPages)
	}
}

// WithClock 测试中固定当前时间
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(indexer Indexer, policy Policy, opts ...EngineOption) *Engine {
	e := &Engine{
		indexer:    indexer,
		aggregator: NewTransactionAggregator(indexer, DefaultPageLimit, DefaultMaxPages),
		policy:     policy,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate 并发获取持仓快照和交易历史, 任一失败则整体失败
func (e *Engine) Evaluate(ctx context.Context, address string) (*Report, error) {
	var (
		snapshot Snapshot
		txs      []TransactionRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assets, err := e.indexer.FetchAssetsByOwner(gctx, address)
		if err != nil {
			return errors.Wrap(err, "failed on fetch wallet snapshot")
		}
		snapshot = BuildSnapshot(address, assets)
		return nil
	})
	g.Go(func() error {
		var err error
		txs, err = e.aggregator.Aggregate(gctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := Extract(txs, address, e.policy, e.now())
	score := Score(m, e.policy.Denylist.BehavioralRules)
	label := ResolveLabel(score, e.policy.Labels, e.policy.LabelThresholds)

	return &Report{
		Snapshot: snapshot,
		Reputation: Reputation{
			Score:   score,
			Label:   label,
			Metrics: RoundMetrics(m),
		},
	}, nil
}

// RoundMetrics 浮点指标保留两位小数
func RoundMetrics(m Metrics) Metrics {
	m.WalletAgeDays = utils.Round2(m.WalletAgeDays)
	m.ActivityConsistency = utils.Round2(m.ActivityConsistency)
	m.MedianHoldDays = utils.Round2Ptr(m.MedianHoldDays)
	m.FlipRate = utils.Round2Ptr(m.FlipRate)
	m.OutboundRatio = utils.Round2Ptr(m.OutboundRatio)
	return m
}

// BuildSnapshot 由资产列表构建快照, NFT 按 id 去重 (大小写不敏感)
func BuildSnapshot(address string, assets []Asset) Snapshot {
	s := Snapshot{Address: address, Tokens: []TokenHolding{}, NFTs: []NFTHolding{}}
	seenNFT := make(map[string]struct{})
	mints := make(map[string]struct{})

	for _, a := range assets {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			continue
		}
		if a.IsNFT() {
			key := strings.ToLower(id)
			if _, ok := seenNFT[key]; ok {
				continue
			}
			seenNFT[key] = struct{}{}
			s.NFTs = append(s.NFTs, NFTHolding{Mint: id})
			continue
		}
		if a.Balance.IsPositive() {
			amount, _ := a.Balance.Float64()
			s.Tokens = append(s.Tokens, TokenHolding{Mint: id, Amount: amount, Decimals: a.Decimals})
			mints[id] = struct{}{}
		}
	}

	s.TotalTokenAccounts = len(s.Tokens) + len(s.NFTs)
	s.DistinctTokenMints = len(mints)
	s.NFTCount = len(s.NFTs)
	return s
}
