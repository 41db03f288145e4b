package reputation

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const unknownAssetName = "Unknown Asset"

// AllowedCollections 允许进入进化流程的集合 (allowed-assets.json)
type AllowedCollections struct {
	FeralCollections []string `mapstructure:"feralcollections" json:"feralCollections"`
	MilkCollections  []string `mapstructure:"milkcollections" json:"milkCollections"`
}

// AllowedAsset 前端展示用的资产
type AllowedAsset struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Image      *string `json:"image"`
	Collection *string `json:"collection"`
}

type AllowedAssets struct {
	Ferals []AllowedAsset `json:"ferals"`
	Milk   []AllowedAsset `json:"milk"`
}

// LoadAllowedCollections 读取失败时返回空配置
func LoadAllowedCollections(file string) (AllowedCollections, error) {
	if _, err := os.Stat(file); err != nil {
		return AllowedCollections{}, errors.Wrap(err, "failed on stat allowed assets config")
	}
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return AllowedCollections{}, errors.Wrap(err, "failed on read allowed assets config")
	}
	var c AllowedCollections
	if err := v.Unmarshal(&c); err != nil {
		return AllowedCollections{}, errors.Wrap(err, "failed on decode allowed assets config")
	}
	return c, nil
}

// FetchAllowedAssets 将钱包资产按集合分为 ferals 与 milk, 两个集合都未配置时不请求索引服务
func FetchAllowedAssets(ctx context.Context, indexer AssetIndexer, address string, cfg AllowedCollections) (*AllowedAssets, error) {
	feralSet := normalizeSet(cfg.FeralCollections)
	milkSet := normalizeSet(cfg.MilkCollections)

	out := &AllowedAssets{Ferals: []AllowedAsset{}, Milk: []AllowedAsset{}}
	if len(feralSet) == 0 && len(milkSet) == 0 {
		return out, nil
	}

	assets, err := indexer.FetchAssetsByOwner(ctx, address)
	if err != nil {
		return nil, errors.Wrap(err, "failed on fetch assets")
	}

	for _, a := range assets {
		if a.Collection == "" {
			continue
		}
		item := toAllowedAsset(a)
		key := strings.ToLower(a.Collection)
		if _, ok := feralSet[key]; ok {
			out.Ferals = append(out.Ferals, item)
		}
		if _, ok := milkSet[key]; ok {
			out.Milk = append(out.Milk, item)
		}
	}
	return out, nil
}

func toAllowedAsset(a Asset) AllowedAsset {
	item := AllowedAsset{ID: a.ID, Name: a.Name}
	if item.Name == "" {
		item.Name = unknownAssetName
	}
	if a.Image != "" {
		img := a.Image
		item.Image = &img
	}
	if a.Collection != "" {
		col := a.Collection
		item.Collection = &col
	}
	return item
}
