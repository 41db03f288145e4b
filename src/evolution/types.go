package evolution

import "encoding/json"

const (
	MutationVersion    = "v2"
	MutationSymbol     = "FERALM"
	DefaultCategory    = "Uncategorized"
	DefaultDescription = "Mutated FERAL asset."
)

// Attribute NFT 属性
type Attribute struct {
	TraitType string `json:"trait_type" validate:"required"`
	Value     string `json:"value"`
}

// Mutation 进化记录, 写入新资产的 metadata
type Mutation struct {
	ParentMint      string `json:"parent_v1_mint"`
	CatalystMint    string `json:"catalyst_mint"`
	CatalystTier    int    `json:"catalyst_tier"`
	MutationVersion string `json:"mutation_version"`
	Category        string `json:"category"`
}

// Metadata 资产 metadata
type Metadata struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Attributes  []Attribute `json:"attributes"`
	Mutation    *Mutation   `json:"mutation,omitempty"`
}

// CatalystMetadata 催化剂 metadata, tier 可能是数字也可能是字符串
type CatalystMetadata struct {
	Tier        json.RawMessage `json:"tier"`
	Name        string          `json:"name,omitempty"`
	Symbol      string          `json:"symbol,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Attributes  []Attribute     `json:"attributes,omitempty"`
}

// Inputs 一次进化需要的资产
type Inputs struct {
	AssetMint        string           `json:"assetA_mint"`
	AssetMetadata    Metadata         `json:"assetA_metadata"`
	CatalystMint     string           `json:"catalystB_mint"`
	CatalystMetadata CatalystMetadata `json:"catalystB_metadata"`
	WalletPublicKey  string           `json:"walletPublicKey"`
}

// Preview 进化预览结果. 链上燃烧与铸造不在服务端执行
type Preview struct {
	ParentMint       string   `json:"parentMint"`
	CatalystMint     string   `json:"catalystMint"`
	Tier             int      `json:"tier"`
	MutatedMetadata  Metadata `json:"mutatedMetadata"`
	OwnershipChecked bool     `json:"ownershipChecked"`
}
