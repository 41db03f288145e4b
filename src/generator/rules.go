package generator

import (
	"github.com/pkg/errors"
)

var (
	// ErrForceIntegrity 强制规则引用了不存在的属性, 属于配置错误, 整个生成任务中止
	ErrForceIntegrity = errors.New("force rule requires a trait that does not exist")
	// ErrUnknownSelector 规则引用了目录中不存在的图层或属性
	ErrUnknownSelector = errors.New("rule references unknown layer or trait")
)

// chosenMatches 判断选择器的图层是否已选择且满足选择器
// 图层尚未选择时视为不匹配
func chosenMatches(partial Selection, sel Selector) bool {
	v, ok := partial[sel.Layer]
	return ok && sel.MatchesTrait(v)
}

// ViolatesBlock 判断在已选结果 partial 的基础上为 layer 选择 trait 是否违反互斥规则
// 规则是对称的, (layer, trait) 可以命中 A 侧或 B 侧
func ViolatesBlock(partial Selection, layer, trait string, rules RuleSet) bool {
	for _, r := range rules.Block {
		if r.A.Matches(layer, trait) && chosenMatches(partial, r.B) {
			return true
		}
		if r.B.Matches(layer, trait) && chosenMatches(partial, r.A) {
			return true
		}
	}
	return false
}

// NarrowByForce 按强制规则收窄 layer 的候选属性
// 按规则顺序遍历, 已成立的 If 对 layer 的要求会覆盖之前的要求, 最后一个生效
func NarrowByForce(partial Selection, layer string, candidates []Trait, rules RuleSet) []Trait {
	var need *Selector
	for _, r := range rules.Force {
		if !chosenMatches(partial, r.If) {
			continue
		}
		for i := range r.ThenRequire {
			if r.ThenRequire[i].Layer == layer {
				need = &r.ThenRequire[i]
			}
		}
	}
	if need == nil || need.IsWildcard() {
		return candidates
	}

	narrowed := make([]Trait, 0, 1)
	for _, c := range candidates {
		if c.Name == *need.Trait {
			narrowed = append(narrowed, c)
		}
	}
	return narrowed
}

// ApplyForceCorrections 对完整结果执行一次强制修正
// 图层按目录顺序采样, 被强制的图层可能先于触发图层被选出, 初次采样无法提前过滤,
// 这里单次遍历规则并直接覆盖被要求的图层; 不迭代到不动点
func ApplyForceCorrections(sel Selection, layers []Layer, rules RuleSet) error {
	index := make(map[string]*Layer, len(layers))
	for i := range layers {
		index[layers[i].Name] = &layers[i]
	}

	for _, r := range rules.Force {
		if !chosenMatches(sel, r.If) {
			continue
		}
		for _, req := range r.ThenRequire {
			if req.IsWildcard() {
				continue
			}
			l, ok := index[req.Layer]
			if !ok {
				return errors.Wrapf(ErrForceIntegrity, "force requires %q", req.String())
			}
			forced, ok := l.Trait(*req.Trait)
			if !ok {
				return errors.Wrapf(ErrForceIntegrity, "force requires %q", req.String())
			}
			sel[req.Layer] = forced.Name
		}
	}
	return nil
}

// ViolatesAnyBlock 对完整结果重新校验所有互斥规则
func ViolatesAnyBlock(sel Selection, rules RuleSet) bool {
	for layer, trait := range sel {
		if ViolatesBlock(sel, layer, trait, rules) {
			return true
		}
	}
	return false
}

// SatisfiesForce 判断完整结果是否满足全部强制规则 (通配项视为满足)
func SatisfiesForce(sel Selection, rules RuleSet) bool {
	for _, r := range rules.Force {
		if !chosenMatches(sel, r.If) {
			continue
		}
		for _, req := range r.ThenRequire {
			if req.IsWildcard() {
				continue
			}
			if sel[req.Layer] != *req.Trait {
				return false
			}
		}
	}
	return true
}

// ValidateRules 在采样前校验规则引用的图层和属性都存在
func ValidateRules(c *Catalog, rules RuleSet) error {
	check := func(sel Selector) error {
		l, ok := c.Layer(sel.Layer)
		if !ok {
			return errors.Wrapf(ErrUnknownSelector, "layer %q", sel.Layer)
		}
		if sel.IsWildcard() {
			return nil
		}
		if _, ok := l.Trait(*sel.Trait); !ok {
			return errors.Wrapf(ErrUnknownSelector, "trait %q", sel.String())
		}
		return nil
	}

	for _, r := range rules.Block {
		if err := check(r.A); err != nil {
			return err
		}
		if err := check(r.B); err != nil {
			return err
		}
	}
	for _, r := range rules.Force {
		if err := check(r.If); err != nil {
			return err
		}
		// ThenRequire 中不存在的属性留到修正阶段以 ErrForceIntegrity 报错
		for _, req := range r.ThenRequire {
			if _, ok := c.Layer(req.Layer); !ok {
				return errors.Wrapf(ErrUnknownSelector, "layer %q", req.Layer)
			}
		}
	}
	return nil
}
