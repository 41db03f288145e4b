package evolution

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var tierSuffixRe = regexp.MustCompile(`\s(?:T1|T2|T3)$`)

// TraitMatch 按 trait_type 与 value 精确匹配
type TraitMatch struct {
	TraitType string `toml:"trait_type" mapstructure:"trait_type" json:"trait_type"`
	Value     string `toml:"value" mapstructure:"value" json:"value"`
}

// CategoryRule 分类规则, AllOf 全部命中且 AnyOf 至少命中一个. 为空的条件视为满足
type CategoryRule struct {
	ID    string       `toml:"id" mapstructure:"id" json:"id"`
	Label string       `toml:"label" mapstructure:"label" json:"label"`
	AllOf []TraitMatch `toml:"all_of" mapstructure:"all_of" json:"allOf,omitempty"`
	AnyOf []TraitMatch `toml:"any_of" mapstructure:"any_of" json:"anyOf,omitempty"`
}

// DefaultCategoryRules 未配置时使用
var DefaultCategoryRules = []CategoryRule{
	{
		ID:    "prototype",
		Label: "Prototype",
		AllOf: []TraitMatch{{TraitType: "Origin", Value: "Genesis"}},
	},
}

// ParseTier 解析催化剂等级, 只接受 1..3.
// 数字必须恰好是整数等级; 字符串取开头的整数部分 ("2" "2 star" 都是 2)
func ParseTier(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}

	var tier int
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil || f != float64(int(f)) {
			return 0, false
		}
		tier = int(f)
	case string:
		n, ok := leadingInt(t)
		if !ok {
			return 0, false
		}
		tier = n
	default:
		return 0, false
	}

	if tier < 1 || tier > 3 {
		return 0, false
	}
	return tier, true
}

// leadingInt 跳过前导空白, 读取可选符号和连续数字
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// AppendTier 去掉已有的 T1..T3 后缀, 追加新的等级
func AppendTier(value string, tier int) string {
	return tierSuffixRe.ReplaceAllString(value, "") + " T" + strconv.Itoa(tier)
}

func hasTrait(attrs []Attribute, m TraitMatch) bool {
	for _, a := range attrs {
		if a.TraitType == m.TraitType && a.Value == m.Value {
			return true
		}
	}
	return false
}

// DeriveCategory 按顺序返回第一个命中的规则标签
func DeriveCategory(attrs []Attribute, rules []CategoryRule) string {
	for _, rule := range rules {
		allOf := true
		for _, m := range rule.AllOf {
			if !hasTrait(attrs, m) {
				allOf = false
				break
			}
		}
		anyOf := len(rule.AnyOf) == 0
		for _, m := range rule.AnyOf {
			if hasTrait(attrs, m) {
				anyOf = true
				break
			}
		}
		if allOf && anyOf {
			return rule.Label
		}
	}
	return DefaultCategory
}

// BuildMutation 校验输入并生成进化后的 metadata, 不检查持有关系
func BuildMutation(in Inputs, rules []CategoryRule) (*Metadata, int, error) {
	if strings.TrimSpace(in.AssetMint) == "" || strings.TrimSpace(in.CatalystMint) == "" {
		return nil, 0, newError(CodeMissingAssets, "")
	}
	if len(in.AssetMetadata.Attributes) == 0 {
		return nil, 0, newError(CodeMalformedMetadata, "")
	}
	tier, ok := ParseTier(in.CatalystMetadata.Tier)
	if !ok {
		return nil, 0, newError(CodeInvalidTier, "")
	}
	return mutate(in, tier, rules), tier, nil
}

func mutate(in Inputs, tier int, rules []CategoryRule) *Metadata {
	src := in.AssetMetadata
	attrs := make([]Attribute, 0, len(src.Attributes))
	for _, a := range src.Attributes {
		attrs = append(attrs, Attribute{TraitType: a.TraitType, Value: AppendTier(a.Value, tier)})
	}

	desc := src.Description
	if desc == "" {
		desc = DefaultDescription
	}

	return &Metadata{
		Name:        "Mutated " + src.Name,
		Symbol:      MutationSymbol,
		Description: desc,
		Image:       src.Image,
		Attributes:  attrs,
		Mutation: &Mutation{
			ParentMint:      in.AssetMint,
			CatalystMint:    in.CatalystMint,
			CatalystTier:    tier,
			MutationVersion: MutationVersion,
			// 分类使用进化前的属性
			Category: DeriveCategory(src.Attributes, rules),
		},
	}
}
