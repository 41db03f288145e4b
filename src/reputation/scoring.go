package reputation

import (
	"sort"
)

// SentinelScore 命中 hard negative 时的固定分数, 覆盖所有加减分
const SentinelScore = -9999

const DefaultLabelID = "NEUTRAL_FERAL"

// DefaultLabel 没有匹配阈值且未配置 NEUTRAL_FERAL 时使用
var DefaultLabel = Label{
	ID:      DefaultLabelID,
	Label:   "Neutral Feral",
	Meaning: "Not enough signal either way.",
}

// Score 按固定规则累加分数
func Score(m Metrics, rules BehavioralRules) int {
	if m.HardNegativeHit {
		return SentinelScore
	}

	score := 0
	age := m.WalletAgeDays

	// 钱包年龄
	switch {
	case age >= 365:
		score += 8
	case age >= 180:
		score += 6
	case age >= 90:
		score += 4
	case age >= 30:
		score += 2
	case age > 0:
		score -= 6
	}
	if age > 0 && age < rules.FreshWalletUnderDays {
		score -= 4
	}

	// 活跃度
	switch {
	case m.ActivityConsistency >= 0.5:
		score += 6
	case m.ActivityConsistency >= 0.25:
		score += 3
	case m.ActivityConsistency >= 0.1:
		score += 1
	case age >= 30:
		score -= 2
	}

	if m.MedianHoldDays != nil {
		switch hold := *m.MedianHoldDays; {
		case hold >= 30:
			score += 6
		case hold >= 14:
			score += 4
		case hold >= 7:
			score += 2
		case hold < 1:
			score -= 6
		}
	}

	if m.FlipRate != nil {
		switch {
		case *m.FlipRate >= 0.5:
			score -= 8
		case *m.FlipRate >= 0.25:
			score -= 4
		}
	}

	switch {
	case m.UniqueAllowlistedSources >= 5:
		score += 6
	case m.UniqueAllowlistedSources >= 2:
		score += 4
	case m.UniqueAllowlistedSources >= 1:
		score += 2
	}

	if m.MintAndDumpCount > 0 {
		score -= 6
	}

	if m.OutboundRatio != nil && *m.OutboundRatio > rules.HighOutboundRateThreshold && m.UniqueAllowlistedSources < 2 {
		score -= 6
	}

	if m.DenylistHit {
		score -= 8
	}
	return score
}

// ResolveLabel 阈值降序排列, 取第一个 score >= min_score 的标签.
// 没有命中或标签 id 未配置时回落到 NEUTRAL_FERAL;
// SentinelScore 低于所有阈值时取最低阈值的标签
func ResolveLabel(score int, labels []Label, thresholds []Threshold) Label {
	byID := make(map[string]Label, len(labels))
	for _, l := range labels {
		byID[l.ID] = l
	}

	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinScore > sorted[j].MinScore
	})

	var picked *Threshold
	for i := range sorted {
		if float64(score) >= sorted[i].MinScore {
			picked = &sorted[i]
			break
		}
	}
	// 硬负面分数低于所有阈值时落在最低一档, 不回落到 NEUTRAL_FERAL
	if picked == nil && score <= SentinelScore && len(sorted) > 0 {
		picked = &sorted[len(sorted)-1]
	}

	if picked != nil {
		if l, ok := byID[picked.LabelID]; ok {
			return l
		}
	}
	if l, ok := byID[DefaultLabelID]; ok {
		return l
	}
	return DefaultLabel
}
