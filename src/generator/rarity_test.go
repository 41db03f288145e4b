package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	items := []GeneratedItem{
		{Edition: 1, Selection: Selection{"Bg": "Blue", "Eyes": "Laser"}},
		{Edition: 2, Selection: Selection{"Bg": "Blue", "Eyes": "Sleepy"}},
		{Edition: 3, Selection: Selection{"Bg": "Blue", "Eyes": "Sleepy"}},
		{Edition: 4, Selection: Selection{"Bg": "Red", "Eyes": "Sleepy"}},
	}
	Rank(items)

	// Blue 3/4, Red 1/4, Laser 1/4, Sleepy 3/4
	assert.InDelta(t, 4.0/3+4, items[0].RarityScore, 1e-9)
	assert.InDelta(t, 4.0/3+4.0/3, items[1].RarityScore, 1e-9)
	assert.InDelta(t, 4+4.0/3, items[3].RarityScore, 1e-9)

	// 1 与 4 同分, edition 小的排前
	assert.Equal(t, 1, items[0].Rank)
	assert.Equal(t, 2, items[3].Rank)
	assert.Equal(t, 3, items[1].Rank)
	assert.Equal(t, 4, items[2].Rank)
}

func TestRankIsPermutation(t *testing.T) {
	items := []GeneratedItem{
		{Edition: 1, Selection: Selection{"A": "x"}},
		{Edition: 2, Selection: Selection{"A": "x"}},
		{Edition: 3, Selection: Selection{"A": "y"}},
	}
	Rank(items)

	seen := map[int]bool{}
	for _, it := range items {
		seen[it.Rank] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
	assert.Equal(t, 1, items[2].Rank)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
