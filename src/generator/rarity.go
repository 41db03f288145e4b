package generator

import (
	"sort"
)

// Rank 计算稀有度并排名
// 频次按实际产出的集合统计, N 为产出数量; 分数 = Σ N / count(layer, trait).
// 分数降序, 同分按 edition 升序, rank 从 1 开始. 就地修改并返回 items
func Rank(items []GeneratedItem) []GeneratedItem {
	n := float64(len(items))
	if n == 0 {
		return items
	}

	type key struct{ layer, trait string }
	counts := make(map[key]int)
	for _, it := range items {
		for l, t := range it.Selection {
			counts[key{l, t}]++
		}
	}

	for i := range items {
		// 固定求和顺序, 保证相同组合得到完全相同的浮点分数
		layers := make([]string, 0, len(items[i].Selection))
		for l := range items[i].Selection {
			layers = append(layers, l)
		}
		sort.Strings(layers)

		var score float64
		for _, l := range layers {
			score += n / float64(counts[key{l, items[i].Selection[l]}])
		}
		items[i].RarityScore = score
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := items[order[a]], items[order[b]]
		if ia.RarityScore != ib.RarityScore {
			return ia.RarityScore > ib.RarityScore
		}
		return ia.Edition < ib.Edition
	})
	for rank, idx := range order {
		items[idx].Rank = rank + 1
	}
	return items
}
