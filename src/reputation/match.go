package reputation

import (
	"strings"
)

// normalizeMatchKey 小写并去掉所有非字母数字字符
func normalizeMatchKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// termMatcher 规范化后做子串匹配. 规范化后为空的词被忽略, 否则会匹配任意值
type termMatcher struct {
	raw        []string
	normalized []string
}

func newTermMatcher(terms []string) termMatcher {
	m := termMatcher{}
	for _, t := range terms {
		n := normalizeMatchKey(t)
		if n == "" {
			continue
		}
		m.raw = append(m.raw, t)
		m.normalized = append(m.normalized, n)
	}
	return m
}

// first 返回列表中第一个被任一 value 命中的原始词
func (m termMatcher) first(values ...string) (string, bool) {
	keys := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			keys = append(keys, normalizeMatchKey(v))
		}
	}
	for i, term := range m.normalized {
		for _, k := range keys {
			if strings.Contains(k, term) {
				return m.raw[i], true
			}
		}
	}
	return "", false
}

func (m termMatcher) matches(values ...string) bool {
	_, ok := m.first(values...)
	return ok
}
