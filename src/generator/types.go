package generator

import (
	"io/fs"
	"sort"
	"strings"
)

// AssetRef 图层素材在素材文件系统中的路径, 空字符串表示无素材
type AssetRef string

// Trait 图层中的一个可选属性
type Trait struct {
	Layer  string   `json:"layer"`
	Name   string   `json:"name"`
	Weight float64  `json:"weight"`  // 0..100
	IsNone bool     `json:"is_none"` // "None" 属性, 与普通属性一样参与权重与规则匹配
	Asset  AssetRef `json:"asset"`
}

// Layer 一个图层, Order 越小越先绘制 (位于底部)
type Layer struct {
	Name   string  `json:"name"`
	Order  int     `json:"order"`
	Traits []Trait `json:"traits"`
}

// Trait 按名称查找属性
func (l *Layer) Trait(name string) (Trait, bool) {
	for _, t := range l.Traits {
		if t.Name == name {
			return t, true
		}
	}
	return Trait{}, false
}

// Catalog 图层目录, 生成期间只读
type Catalog struct {
	Layers []Layer
	Width  int
	Height int
	Assets fs.FS // 素材来源, 可以为 nil (仅做采样时)
}

// Sorted 按 Order 升序返回图层副本
func (c *Catalog) Sorted() []Layer {
	layers := make([]Layer, len(c.Layers))
	copy(layers, c.Layers)
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].Order < layers[j].Order
	})
	return layers
}

// Layer 按名称查找图层
func (c *Catalog) Layer(name string) (*Layer, bool) {
	for i := range c.Layers {
		if c.Layers[i].Name == name {
			return &c.Layers[i], true
		}
	}
	return nil, false
}

// Selector 规则选择器, Trait 为 nil 表示通配 (该图层的任意属性)
type Selector struct {
	Layer string
	Trait *string
}

// Any 通配选择器
func Any(layer string) Selector {
	return Selector{Layer: layer}
}

// Is 精确选择器
func Is(layer, trait string) Selector {
	return Selector{Layer: layer, Trait: &trait}
}

func (s Selector) IsWildcard() bool {
	return s.Trait == nil
}

// MatchesTrait 判断属性名是否满足选择器 (不比较图层)
func (s Selector) MatchesTrait(trait string) bool {
	return s.Trait == nil || *s.Trait == trait
}

// Matches 判断 (layer, trait) 是否满足选择器
func (s Selector) Matches(layer, trait string) bool {
	return s.Layer == layer && s.MatchesTrait(trait)
}

func (s Selector) String() string {
	if s.Trait == nil {
		return s.Layer + ":*"
	}
	return s.Layer + ":" + *s.Trait
}

// BlockRule 互斥规则: A 与 B 不能同时出现, 与顺序无关
type BlockRule struct {
	A Selector
	B Selector
}

// ForceRule 强制规则: If 成立时 ThenRequire 中的精确项必须同时成立
type ForceRule struct {
	If          Selector
	ThenRequire []Selector
}

// RuleSet 一次生成使用的全部规则
type RuleSet struct {
	Block []BlockRule
	Force []ForceRule
}

// Selection 一个生成结果: 图层名 -> 属性名
type Selection map[string]string

// Signature 规范签名, 按图层名排序后拼接 layer:trait, 用于去重
func (s Selection) Signature() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+s[k])
	}
	return strings.Join(parts, "|")
}

func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// GeneratedItem 一个已生成的 NFT
type GeneratedItem struct {
	Edition     int       `json:"edition"` // 从 1 开始
	Selection   Selection `json:"selection"`
	RarityScore float64   `json:"rarity_score"`
	Rank        int       `json:"rank"` // 1 = 最稀有
}
