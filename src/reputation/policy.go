package reputation

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Allowlist 可信来源
type Allowlist struct {
	Marketplaces              []string `mapstructure:"marketplaces" json:"marketplaces"`
	DefiProgramsOrApps        []string `mapstructure:"defi_programs_or_apps" json:"defi_programs_or_apps"`
	InfraTooling              []string `mapstructure:"infra_tooling" json:"infra_tooling"`
	ReputableCollectionsTierA []string `mapstructure:"reputable_collections_tier_a" json:"reputable_collections_tier_A"`
	ReputableCollectionsTierB []string `mapstructure:"reputable_collections_tier_b" json:"reputable_collections_tier_B"`
}

// BehavioralRules 行为阈值
type BehavioralRules struct {
	FreshWalletUnderDays      float64 `mapstructure:"fresh_wallet_under_days" json:"fresh_wallet_under_days"`
	MintAndDumpUnderMinutes   float64 `mapstructure:"mint_and_dump_under_minutes" json:"mint_and_dump_under_minutes"`
	HighOutboundRateThreshold float64 `mapstructure:"high_outbound_rate_threshold" json:"high_outbound_rate_threshold"`
}

// Denylist 负面来源
type Denylist struct {
	SourceTerms       []string        `mapstructure:"source_terms" json:"source_terms"`
	ProgramIDs        []string        `mapstructure:"program_ids" json:"program_ids"`
	HardNegativeTerms []string        `mapstructure:"hard_negative_terms" json:"hard_negative_terms"`
	BehavioralRules   BehavioralRules `mapstructure:"behavioral_rules" json:"behavioral_rules"`
}

// Label 评分标签
type Label struct {
	ID      string `mapstructure:"id" json:"id"`
	Label   string `mapstructure:"label" json:"label"`
	Meaning string `mapstructure:"meaning" json:"meaning"`
}

// Threshold 分数 >= MinScore 时使用 LabelID
type Threshold struct {
	MinScore float64 `mapstructure:"min_score" json:"min_score"`
	LabelID  string  `mapstructure:"label_id" json:"label_id"`
}

// Policy 评分配置 (wallet-reputation.json), 加载后只读
type Policy struct {
	Allowlist       Allowlist   `mapstructure:"allowlist" json:"allowlist"`
	Denylist        Denylist    `mapstructure:"denylist" json:"denylist"`
	Labels          []Label     `mapstructure:"labels" json:"labels"`
	LabelThresholds []Threshold `mapstructure:"label_thresholds" json:"label_thresholds"`
}

// DefaultPolicy 空名单与默认行为阈值
func DefaultPolicy() Policy {
	return Policy{
		Denylist: Denylist{
			BehavioralRules: BehavioralRules{
				FreshWalletUnderDays:      7,
				MintAndDumpUnderMinutes:   60,
				HighOutboundRateThreshold: 0.7,
			},
		},
	}
}

// LoadPolicy 读取评分配置, 文件中缺失的字段保留默认值.
// 读取失败时返回 DefaultPolicy 和错误, 由调用方决定是否继续
func LoadPolicy(file string) (Policy, error) {
	p := DefaultPolicy()
	if file == "" {
		return p, errors.New("policy file not configured")
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return DefaultPolicy(), errors.Wrap(err, "failed on read policy")
	}
	if err := v.Unmarshal(&p); err != nil {
		return DefaultPolicy(), errors.Wrap(err, "failed on decode policy")
	}
	return p, nil
}

// AllowlistTerms 参与来源匹配的词: marketplaces + defi + infra
func (p Policy) AllowlistTerms() []string {
	terms := make([]string, 0, len(p.Allowlist.Marketplaces)+len(p.Allowlist.DefiProgramsOrApps)+len(p.Allowlist.InfraTooling))
	terms = append(terms, p.Allowlist.Marketplaces...)
	terms = append(terms, p.Allowlist.DefiProgramsOrApps...)
	terms = append(terms, p.Allowlist.InfraTooling...)
	return terms
}
