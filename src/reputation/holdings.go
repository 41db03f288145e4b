package reputation

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
)

// AccessTier 访问等级
type AccessTier string

const (
	AccessTierNone      AccessTier = "none"
	AccessTierStandard  AccessTier = "standard"
	AccessTierLegendary AccessTier = "legendary"
)

// AccessRequirements 访问门槛配置
type AccessRequirements struct {
	RequiredNFTs      []string `toml:"required_nft_mints" mapstructure:"required_nft_mints" json:"required_nft_mints"` // mint 或 collection 地址
	RequiredTokenMint string   `toml:"required_token_mint" mapstructure:"required_token_mint" json:"required_token_mint"`
	RequiredTokenMin  float64  `toml:"required_token_min" mapstructure:"required_token_min" json:"required_token_min"`
}

type Holdings struct {
	HasNFT   bool `json:"hasNft"`
	HasToken bool `json:"hasToken"`
}

type Requirements struct {
	RequiresNFT   bool `json:"requiresNft"`
	RequiresToken bool `json:"requiresToken"`
}

// HoldingsResult 持仓检查结果
type HoldingsResult struct {
	Holdings     Holdings     `json:"holdings"`
	Requirements Requirements `json:"requirements"`
	IsEligible   bool         `json:"isEligible"`
	AccessTier   AccessTier   `json:"accessTier"`
}

// CheckHoldings 检查钱包是否满足访问门槛
// 未配置的门槛视为满足; 同时配置 NFT 和代币时满足其一即可
func CheckHoldings(ctx context.Context, indexer AssetIndexer, address string, req AccessRequirements) (*HoldingsResult, error) {
	requiresNFT := len(req.RequiredNFTs) > 0
	requiresToken := req.RequiredTokenMint != ""

	res := &HoldingsResult{
		Holdings:     Holdings{HasNFT: true, HasToken: true},
		Requirements: Requirements{RequiresNFT: requiresNFT, RequiresToken: requiresToken},
	}

	if requiresNFT || requiresToken {
		assets, err := indexer.FetchAssetsByOwner(ctx, address)
		if err != nil {
			xzap.WithContext(ctx).Error("failed on fetch assets for holdings", zap.String("address", address), zap.Error(err))
			return nil, errors.Wrap(err, "failed on fetch assets")
		}

		if requiresNFT {
			res.Holdings.HasNFT = holdsRequiredNFT(assets, req.RequiredNFTs)
		}
		if requiresToken {
			res.Holdings.HasToken = tokenBalance(assets, req.RequiredTokenMint).
				GreaterThanOrEqual(decimal.NewFromFloat(req.RequiredTokenMin))
		}
	}

	h := res.Holdings
	switch {
	case requiresNFT && requiresToken:
		res.IsEligible = h.HasNFT || h.HasToken
	case requiresNFT:
		res.IsEligible = h.HasNFT
	case requiresToken:
		res.IsEligible = h.HasToken
	default:
		res.IsEligible = true
	}

	switch {
	case h.HasNFT && h.HasToken:
		res.AccessTier = AccessTierLegendary
	case h.HasNFT || h.HasToken:
		res.AccessTier = AccessTierStandard
	default:
		res.AccessTier = AccessTierNone
	}
	return res, nil
}

func holdsRequiredNFT(assets []Asset, required []string) bool {
	set := normalizeSet(required)
	for _, a := range assets {
		if _, ok := set[strings.ToLower(a.ID)]; ok {
			return true
		}
		if a.Collection == "" {
			continue
		}
		if _, ok := set[strings.ToLower(a.Collection)]; ok {
			return true
		}
	}
	return false
}

// tokenBalance 同一 mint 的余额累加
func tokenBalance(assets []Asset, mint string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		if a.ID == mint {
			total = total.Add(a.Balance)
		}
	}
	return total
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
