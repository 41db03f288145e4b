package evolution

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

// Config 进化配置. 集合为空时不限制集合
type Config struct {
	AssetCollections    []string       `toml:"asset_collections" mapstructure:"asset_collections" json:"asset_collections"`
	CatalystCollections []string       `toml:"catalyst_collections" mapstructure:"catalyst_collections" json:"catalyst_collections"`
	CategoryRules       []CategoryRule `toml:"category_rules" mapstructure:"category_rules" json:"category_rules"`
}

// Evolver 校验持有关系后生成进化预览
type Evolver struct {
	indexer reputation.AssetIndexer
	cfg     Config
}

func NewEvolver(indexer reputation.AssetIndexer, cfg Config) *Evolver {
	if len(cfg.CategoryRules) == 0 {
		cfg.CategoryRules = DefaultCategoryRules
	}
	return &Evolver{indexer: indexer, cfg: cfg}
}

// Preview 顺序: 资产齐全 -> metadata 完整 -> 钱包持有两个资产 -> 催化剂等级
func (e *Evolver) Preview(ctx context.Context, in Inputs) (*Preview, error) {
	if strings.TrimSpace(in.AssetMint) == "" || strings.TrimSpace(in.CatalystMint) == "" {
		return nil, newError(CodeMissingAssets, "")
	}
	if len(in.AssetMetadata.Attributes) == 0 {
		return nil, newError(CodeMalformedMetadata, "")
	}

	assets, err := e.indexer.FetchAssetsByOwner(ctx, in.WalletPublicKey)
	if err != nil {
		xzap.WithContext(ctx).Error("failed on fetch assets for evolution",
			zap.String("wallet", in.WalletPublicKey), zap.Error(err))
		return nil, &Error{Code: CodeTransactionFailure, cause: err}
	}
	if !owns(assets, in.AssetMint, e.cfg.AssetCollections) {
		return nil, newError(CodeOwnershipFailed, "Asset A is not owned.")
	}
	if !owns(assets, in.CatalystMint, e.cfg.CatalystCollections) {
		return nil, newError(CodeOwnershipFailed, "Catalyst B is not owned.")
	}

	meta, tier, err := BuildMutation(in, e.cfg.CategoryRules)
	if err != nil {
		return nil, err
	}
	return &Preview{
		ParentMint:       in.AssetMint,
		CatalystMint:     in.CatalystMint,
		Tier:             tier,
		MutatedMetadata:  *meta,
		OwnershipChecked: true,
	}, nil
}

// owns 钱包持有该 mint, 且配置了集合时 mint 属于其中之一
func owns(assets []reputation.Asset, mint string, collections []string) bool {
	for _, a := range assets {
		if a.ID != mint {
			continue
		}
		if len(collections) == 0 {
			return true
		}
		for _, c := range collections {
			if strings.EqualFold(strings.TrimSpace(c), a.Collection) {
				return true
			}
		}
		return false
	}
	return false
}
