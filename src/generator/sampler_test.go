package generator

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedPick(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("empty", func(t *testing.T) {
		_, err := WeightedPick(rng, nil)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})

	t.Run("zero weight never chosen", func(t *testing.T) {
		cands := []Trait{trait("L", "zero", 0), trait("L", "a", 10), trait("L", "zero2", 0), trait("L", "b", 5)}
		for i := 0; i < 5000; i++ {
			got, err := WeightedPick(rng, cands)
			require.NoError(t, err)
			assert.NotContains(t, []string{"zero", "zero2"}, got.Name)
		}
	})

	t.Run("all zero returns first", func(t *testing.T) {
		got, err := WeightedPick(rng, []Trait{trait("L", "None", 0), trait("L", "x", 0)})
		require.NoError(t, err)
		assert.Equal(t, "None", got.Name)
	})

	t.Run("follows weights", func(t *testing.T) {
		cands := []Trait{trait("L", "common", 75), trait("L", "rare", 25)}
		const n = 20000
		common := 0
		for i := 0; i < n; i++ {
			got, _ := WeightedPick(rng, cands)
			if got.Name == "common" {
				common++
			}
		}
		assert.InDelta(t, 0.75, float64(common)/n, 0.03)
	})
}

func TestSampleOne(t *testing.T) {
	layers := testLayers()
	rng := rand.New(rand.NewSource(42))

	t.Run("force narrows later layer", func(t *testing.T) {
		rules := RuleSet{Force: []ForceRule{{If: Is("Body", "Ghost"), ThenRequire: []Selector{Is("Eyes", "None")}}}}
		for i := 0; i < 200; i++ {
			sel, err := SampleOne(rng, layers, rules)
			require.NoError(t, err)
			require.Len(t, sel, 3)
			if sel["Body"] == "Ghost" {
				assert.Equal(t, "None", sel["Eyes"])
			} else {
				assert.NotEqual(t, "None", sel["Eyes"])
			}
		}
	})

	t.Run("force corrects earlier layer", func(t *testing.T) {
		rules := RuleSet{Force: []ForceRule{{If: Is("Eyes", "Laser"), ThenRequire: []Selector{Is("Background", "Red")}}}}
		for i := 0; i < 200; i++ {
			sel, err := SampleOne(rng, layers, rules)
			require.NoError(t, err)
			assert.True(t, SatisfiesForce(sel, rules))
		}
	})

	t.Run("block never violated", func(t *testing.T) {
		rules := RuleSet{Block: []BlockRule{{A: Is("Eyes", "Laser"), B: Is("Body", "Ghost")}}}
		for i := 0; i < 200; i++ {
			sel, err := SampleOne(rng, layers, rules)
			require.NoError(t, err)
			assert.False(t, sel["Eyes"] == "Laser" && sel["Body"] == "Ghost")
		}
	})

	t.Run("correction producing a block violation fails the attempt", func(t *testing.T) {
		rules := RuleSet{
			Force: []ForceRule{{If: Is("Eyes", "Laser"), ThenRequire: []Selector{Is("Background", "Red")}}},
			Block: []BlockRule{{A: Is("Background", "Red"), B: Is("Body", "Cat")}},
		}
		for i := 0; i < 200; i++ {
			sel, err := SampleOne(rng, layers, rules)
			if err != nil {
				assert.ErrorIs(t, err, ErrAttemptFailed)
				continue
			}
			assert.False(t, ViolatesAnyBlock(sel, rules))
			assert.True(t, SatisfiesForce(sel, rules))
		}
	})

	t.Run("integrity error is fatal", func(t *testing.T) {
		rules := RuleSet{Force: []ForceRule{{If: Is("Eyes", "Laser"), ThenRequire: []Selector{Is("Background", "Missing")}}}}
		var err error
		for i := 0; i < 200 && err == nil; i++ {
			_, err = SampleOne(rng, layers, rules)
		}
		assert.ErrorIs(t, err, ErrForceIntegrity)
		assert.NotErrorIs(t, err, ErrAttemptFailed)
	})
}

func TestGenerateUniqueSet(t *testing.T) {
	ctx := context.Background()
	layers := testLayers()

	t.Run("unique signatures", func(t *testing.T) {
		res, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(1)), layers, RuleSet{}, 8, true)
		require.NoError(t, err)
		assert.Equal(t, 8, res.Minted)
		assert.False(t, res.Partial())

		seen := map[string]bool{}
		for i, it := range res.Items {
			assert.Equal(t, i+1, it.Edition)
			assert.False(t, seen[it.Selection.Signature()])
			seen[it.Selection.Signature()] = true
		}
	})

	t.Run("budget exhausted yields partial result", func(t *testing.T) {
		// 只有 8 种有效组合
		res, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(1)), layers, RuleSet{}, 10, true)
		require.NoError(t, err)
		assert.Equal(t, 10, res.Requested)
		assert.Equal(t, 8, res.Minted)
		assert.Equal(t, AttemptBudget(10), res.Attempts)
		assert.True(t, res.Partial())
	})

	t.Run("duplicates allowed when not unique", func(t *testing.T) {
		res, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(1)), layers, RuleSet{}, 20, false)
		require.NoError(t, err)
		assert.Equal(t, 20, res.Minted)
		assert.Equal(t, 20, res.Attempts)
	})

	t.Run("unsatisfiable rules mint nothing", func(t *testing.T) {
		rules := RuleSet{Block: []BlockRule{{A: Any("Background"), B: Any("Body")}}}
		res, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(1)), layers, rules, 3, true)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Minted)
		assert.Equal(t, AttemptBudget(3), res.Attempts)
		assert.Equal(t, res.Attempts, res.Failed)
	})

	t.Run("same seed is reproducible", func(t *testing.T) {
		a, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(99)), layers, RuleSet{}, 5, true)
		require.NoError(t, err)
		b, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(99)), layers, RuleSet{}, 5, true)
		require.NoError(t, err)
		for i := range a.Items {
			assert.Equal(t, a.Items[i].Selection.Signature(), b.Items[i].Selection.Signature())
		}
	})

	twoEyes := []Layer{
		{Name: "Body", Order: 0, Traits: []Trait{trait("Body", "A", 100)}},
		{Name: "Eyes", Order: 1, Traits: []Trait{trait("Eyes", "Blue", 50), trait("Eyes", "Red", 50)}},
	}

	t.Run("unique covers every combination", func(t *testing.T) {
		res, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(3)), twoEyes, RuleSet{}, 2, true)
		require.NoError(t, err)
		require.Equal(t, 2, res.Minted)

		eyes := map[string]bool{}
		for _, it := range res.Items {
			assert.Equal(t, "A", it.Selection["Body"])
			eyes[it.Selection["Eyes"]] = true
		}
		assert.Equal(t, map[string]bool{"Blue": true, "Red": true}, eyes)
	})

	t.Run("block rule excludes the pair", func(t *testing.T) {
		rules := RuleSet{Block: []BlockRule{{A: Is("Eyes", "Red"), B: Is("Body", "A")}}}
		res, err := GenerateUniqueSet(ctx, rand.New(rand.NewSource(3)), twoEyes, rules, 2, true)
		require.NoError(t, err)
		require.NotEmpty(t, res.Items)
		for _, it := range res.Items {
			assert.False(t, it.Selection["Eyes"] == "Red" && it.Selection["Body"] == "A")
		}
		assert.Equal(t, 1, res.Minted)
		assert.True(t, res.Partial())
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := GenerateUniqueSet(cctx, rand.New(rand.NewSource(1)), layers, RuleSet{}, 5, true)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAttemptBudget(t *testing.T) {
	assert.Equal(t, 50, AttemptBudget(1))
	assert.Equal(t, 5000, AttemptBudget(100))
	assert.Equal(t, 0+10, AttemptBudget(0))
}

func TestSignature(t *testing.T) {
	sel := Selection{"Eyes": "Laser", "Background": "Blue", "Body": "Cat"}
	assert.Equal(t, "Background:Blue|Body:Cat|Eyes:Laser", sel.Signature())
}
