package generator

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
)

const rankTraitType = "Rank"

// Attribute 元数据属性, Value 为属性名或排名
type Attribute struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

type File struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

type Creator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

type Properties struct {
	Category string    `json:"category"`
	Files    []File    `json:"files"`
	Creators []Creator `json:"creators"`
}

// Metadata 单个 NFT 的元数据 (Metaplex 格式)
type Metadata struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	DNA         string      `json:"dna"`
	Edition     int         `json:"edition"`
	Properties  Properties  `json:"properties"`
	Attributes  []Attribute `json:"attributes"`
}

// MetadataOptions 集合级元数据字段
type MetadataOptions struct {
	NamePrefix  string
	Symbol      string
	Description string
	Creator     string
}

// DNA 组合签名的 keccak256 哈希
func DNA(sel Selection) string {
	return crypto.Keccak256Hash([]byte(sel.Signature())).Hex()
}

// ImageName 第 n 个 NFT 的图片文件名
func ImageName(edition int) string {
	return strconv.Itoa(edition) + ".png"
}

// BuildMetadata 构建元数据, attributes 按图层顺序排列, 最后追加 Rank
func BuildMetadata(item GeneratedItem, layers []Layer, opts MetadataOptions) Metadata {
	img := ImageName(item.Edition)

	attrs := make([]Attribute, 0, len(layers)+1)
	for _, l := range layers {
		t, ok := item.Selection[l.Name]
		if !ok {
			continue
		}
		attrs = append(attrs, Attribute{TraitType: l.Name, Value: t})
	}
	attrs = append(attrs, Attribute{TraitType: rankTraitType, Value: item.Rank})

	creators := []Creator{}
	if opts.Creator != "" {
		creators = append(creators, Creator{Address: opts.Creator, Share: 100})
	}

	return Metadata{
		Name:        fmt.Sprintf("%s #%d", opts.NamePrefix, item.Edition),
		Symbol:      opts.Symbol,
		Description: opts.Description,
		Image:       img,
		DNA:         DNA(item.Selection),
		Edition:     item.Edition,
		Properties: Properties{
			Category: "image",
			Files:    []File{{URI: img, Type: "image/png"}},
			Creators: creators,
		},
		Attributes: attrs,
	}
}
