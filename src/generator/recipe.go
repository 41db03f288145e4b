package generator

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const wildcard = "*"

// Pair 配置文件中的 [layer, trait], trait 为 "*" 表示通配
type Pair []string

// BlockSpec / ForceSpec 配置文件中的规则写法
type BlockSpec struct {
	A Pair `yaml:"a" json:"a"`
	B Pair `yaml:"b" json:"b"`
}

type ForceSpec struct {
	If          Pair   `yaml:"if" json:"if"`
	ThenRequire []Pair `yaml:"thenRequire" json:"thenRequire"`
}

type RuleSpec struct {
	Block []BlockSpec `yaml:"block" json:"block"`
	Force []ForceSpec `yaml:"force" json:"force"`
}

// Recipe 一次生成的全部参数, 可以写成 yaml 或 json
type Recipe struct {
	Supply      int             `yaml:"supply" json:"supply" validate:"gte=0"`
	Unique      *bool           `yaml:"unique" json:"unique"`
	Width       int             `yaml:"width" json:"width"`
	Height      int             `yaml:"height" json:"height"`
	NamePrefix  string          `yaml:"namePrefix" json:"namePrefix"`
	Symbol      string          `yaml:"symbol" json:"symbol" validate:"omitempty,symbol"`
	Description string          `yaml:"description" json:"description"`
	Creator     string          `yaml:"creator" json:"creator" validate:"omitempty,solana_address"` // 创作者钱包地址
	Seed        *int64          `yaml:"seed" json:"seed"`
	Weights     WeightOverrides `yaml:"weights" json:"weights"`
	Rules       RuleSpec        `yaml:"rules" json:"rules"`
}

// ParseRecipe 解析 yaml (json 是 yaml 的子集, 同样适用)
func ParseRecipe(data []byte) (*Recipe, error) {
	r := &Recipe{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, errors.Wrap(err, "failed on parse recipe")
	}
	return r, nil
}

func LoadRecipe(file string) (*Recipe, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed on read recipe")
	}
	return ParseRecipe(data)
}

// Options 将 Recipe 转换为生成参数, unique 默认为 true
func (r *Recipe) Options() (Options, error) {
	rules, err := r.Rules.Compile()
	if err != nil {
		return Options{}, err
	}
	unique := true
	if r.Unique != nil {
		unique = *r.Unique
	}
	return Options{
		Supply:    r.Supply,
		Unique:    unique,
		Rules:     rules,
		Overrides: r.Weights,
		Seed:      r.Seed,
		Metadata: MetadataOptions{
			NamePrefix:  r.NamePrefix,
			Symbol:      r.Symbol,
			Description: r.Description,
			Creator:     r.Creator,
		},
	}, nil
}

func (p Pair) selector() (Selector, error) {
	if len(p) != 2 || p[0] == "" || p[1] == "" {
		return Selector{}, errors.Errorf("rule selector must be [layer, trait], got %v", []string(p))
	}
	if p[1] == wildcard {
		return Any(p[0]), nil
	}
	return Is(p[0], p[1]), nil
}

// Compile 转换为 RuleSet, "*" 在这里转换为通配选择器
func (s RuleSpec) Compile() (RuleSet, error) {
	var rules RuleSet
	for _, b := range s.Block {
		a, err := b.A.selector()
		if err != nil {
			return RuleSet{}, err
		}
		bb, err := b.B.selector()
		if err != nil {
			return RuleSet{}, err
		}
		rules.Block = append(rules.Block, BlockRule{A: a, B: bb})
	}

	for _, f := range s.Force {
		cond, err := f.If.selector()
		if err != nil {
			return RuleSet{}, err
		}
		if cond.IsWildcard() {
			return RuleSet{}, errors.Errorf("force rule condition must name a trait, got %v", []string(f.If))
		}
		rule := ForceRule{If: cond}
		for _, req := range f.ThenRequire {
			sel, err := req.selector()
			if err != nil {
				return RuleSet{}, err
			}
			rule.ThenRequire = append(rule.ThenRequire, sel)
		}
		rules.Force = append(rules.Force, rule)
	}
	return rules, nil
}
