package generator

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
)

var (
	ErrNoCandidates = errors.New("no candidate traits")
	// ErrAttemptFailed 单次采样失败 (候选为空或终检不通过), 调用方继续下一次尝试
	ErrAttemptFailed = errors.New("sampling attempt failed")
)

// WeightedPick 按权重从候选中选择一个属性
// r = rng.Float64() * total, 按列表顺序累加权重, 第一个累计值超过 r 的候选被选中;
// r 为 0 时选中第一个权重大于 0 的候选, 权重为 0 的候选在总权重大于 0 时永远不会被选中.
// 总权重为 0 时 (例如被强制收窄到默认权重为 0 的 None) 返回第一个候选
func WeightedPick(rng *rand.Rand, candidates []Trait) (Trait, error) {
	if len(candidates) == 0 {
		return Trait{}, ErrNoCandidates
	}

	var total float64
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return candidates[0], nil
	}

	r := rng.Float64() * total
	last := -1
	for i, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		if r < c.Weight {
			return c, nil
		}
		r -= c.Weight
		last = i
	}
	// 浮点误差导致未命中时回落到最后一个有权重的候选
	return candidates[last], nil
}

// SampleOne 按图层顺序采样一个完整结果
// 每个图层: 去掉违反互斥规则的候选 -> 按强制规则收窄 -> 加权选择;
// 之后执行一次强制修正, 并对完整结果重新校验互斥规则.
// 返回 ErrAttemptFailed 表示本次尝试作废, 其它错误 (ErrForceIntegrity) 为致命错误
func SampleOne(rng *rand.Rand, layers []Layer, rules RuleSet) (Selection, error) {
	sel := make(Selection, len(layers))
	for _, l := range layers {
		candidates := make([]Trait, 0, len(l.Traits))
		for _, t := range l.Traits {
			if !ViolatesBlock(sel, l.Name, t.Name, rules) {
				candidates = append(candidates, t)
			}
		}
		candidates = NarrowByForce(sel, l.Name, candidates, rules)

		pick, err := WeightedPick(rng, candidates)
		if err != nil {
			return nil, errors.Wrapf(ErrAttemptFailed, "layer %q: %v", l.Name, err)
		}
		sel[l.Name] = pick.Name
	}

	if err := ApplyForceCorrections(sel, layers, rules); err != nil {
		return nil, err
	}
	if ViolatesAnyBlock(sel, rules) {
		return nil, errors.Wrap(ErrAttemptFailed, "block rule violated after force correction")
	}
	return sel, nil
}

// AttemptBudget 一次生成的最大尝试次数
func AttemptBudget(supply int) int {
	if supply*50 > supply+10 {
		return supply * 50
	}
	return supply + 10
}

// SampleResult 采样阶段结果
type SampleResult struct {
	Items      []GeneratedItem
	Requested  int
	Minted     int
	Attempts   int
	Failed     int // 作废的尝试
	Duplicates int // 被去重丢弃的尝试
}

// Partial 尝试次数耗尽时产出少于请求数量
func (r *SampleResult) Partial() bool {
	return r.Minted < r.Requested
}

// GenerateUniqueSet 在尝试预算内重复采样直到达到 supply
// unique 为 true 时按 Signature 去重. 产出不足不是错误, 由调用方根据 Minted/Requested 判断
func GenerateUniqueSet(ctx context.Context, rng *rand.Rand, layers []Layer, rules RuleSet, supply int, unique bool) (*SampleResult, error) {
	res := &SampleResult{Requested: supply}
	if supply <= 0 {
		return res, nil
	}

	budget := AttemptBudget(supply)
	seen := make(map[string]struct{}, supply)
	items := make([]GeneratedItem, 0, supply)

	for len(items) < supply && res.Attempts < budget {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Attempts++

		sel, err := SampleOne(rng, layers, rules)
		if err != nil {
			if errors.Is(err, ErrAttemptFailed) {
				res.Failed++
				continue
			}
			return nil, err
		}

		if unique {
			sig := sel.Signature()
			if _, ok := seen[sig]; ok {
				res.Duplicates++
				continue
			}
			seen[sig] = struct{}{}
		}

		items = append(items, GeneratedItem{
			Edition:   len(items) + 1,
			Selection: sel,
		})
	}

	res.Items = items
	res.Minted = len(items)
	return res, nil
}
