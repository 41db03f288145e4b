package evolution

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		raw  string
		tier int
		ok   bool
	}{
		{`1`, 1, true},
		{`3`, 3, true},
		{`2.0`, 2, true},
		{`2.5`, 0, false},
		{`4`, 0, false},
		{`0`, 0, false},
		{`"2"`, 2, true},
		{`" 3 stars"`, 3, true},
		{`"T2"`, 0, false},
		{`"-1"`, 0, false},
		{`null`, 0, false},
		{``, 0, false},
		{`true`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tier, ok := ParseTier(json.RawMessage(tt.raw))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestAppendTier(t *testing.T) {
	assert.Equal(t, "Blue T2", AppendTier("Blue", 2))
	assert.Equal(t, "Blue T3", AppendTier("Blue T1", 3))
	assert.Equal(t, "BlueT1 T2", AppendTier("BlueT1", 2))
	assert.Equal(t, "Blue T4 T1", AppendTier("Blue T4", 1))
}

func TestDeriveCategory(t *testing.T) {
	rules := []CategoryRule{
		{Label: "Both", AllOf: []TraitMatch{{"Origin", "Genesis"}, {"Eyes", "Laser"}}},
		{Label: "Any", AnyOf: []TraitMatch{{"Eyes", "Blue"}, {"Eyes", "Green"}}},
		{Label: "Mixed", AllOf: []TraitMatch{{"Origin", "Genesis"}}, AnyOf: []TraitMatch{{"Fur", "Gold"}}},
	}
	tests := []struct {
		name  string
		attrs []Attribute
		want  string
	}{
		{"all of", []Attribute{{"Origin", "Genesis"}, {"Eyes", "Laser"}}, "Both"},
		{"any of", []Attribute{{"Eyes", "Green"}}, "Any"},
		{"mixed", []Attribute{{"Origin", "Genesis"}, {"Fur", "Gold"}}, "Mixed"},
		{"none", []Attribute{{"Origin", "Genesis"}}, DefaultCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveCategory(tt.attrs, rules))
		})
	}
}

func validInputs() Inputs {
	return Inputs{
		AssetMint: "AssetMint1",
		AssetMetadata: Metadata{
			Name:  "Feral #7",
			Image: "https://img/7.png",
			Attributes: []Attribute{
				{TraitType: "Eyes", Value: "Blue T1"},
				{TraitType: "Origin", Value: "Genesis"},
			},
		},
		CatalystMint:     "MilkMint1",
		CatalystMetadata: CatalystMetadata{Tier: json.RawMessage(`"2"`)},
		WalletPublicKey:  "Wallet1",
	}
}

func TestBuildMutation(t *testing.T) {
	meta, tier, err := BuildMutation(validInputs(), DefaultCategoryRules)
	require.NoError(t, err)
	assert.Equal(t, 2, tier)
	assert.Equal(t, "Mutated Feral #7", meta.Name)
	assert.Equal(t, MutationSymbol, meta.Symbol)
	assert.Equal(t, DefaultDescription, meta.Description)
	assert.Equal(t, []Attribute{{"Eyes", "Blue T2"}, {"Origin", "Genesis T2"}}, meta.Attributes)
	assert.Equal(t, &Mutation{
		ParentMint:      "AssetMint1",
		CatalystMint:    "MilkMint1",
		CatalystTier:    2,
		MutationVersion: "v2",
		Category:        "Prototype",
	}, meta.Mutation)
}

func TestBuildMutationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Inputs)
		code   Code
	}{
		{"missing asset", func(in *Inputs) { in.AssetMint = " " }, CodeMissingAssets},
		{"missing catalyst", func(in *Inputs) { in.CatalystMint = "" }, CodeMissingAssets},
		{"no attributes", func(in *Inputs) { in.AssetMetadata.Attributes = nil }, CodeMalformedMetadata},
		{"bad tier", func(in *Inputs) { in.CatalystMetadata.Tier = json.RawMessage(`7`) }, CodeInvalidTier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.modify(&in)
			_, _, err := BuildMutation(in, nil)
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

type stubAssets struct {
	assets []reputation.Asset
	err    error
}

func (s stubAssets) FetchAssetsByOwner(context.Context, string) ([]reputation.Asset, error) {
	return s.assets, s.err
}

func TestEvolverPreview(t *testing.T) {
	owned := []reputation.Asset{
		{ID: "AssetMint1", Collection: "FeralCol"},
		{ID: "MilkMint1", Collection: "MilkCol"},
	}
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		e := NewEvolver(stubAssets{assets: owned}, Config{AssetCollections: []string{"feralcol"}})
		p, err := e.Preview(ctx, validInputs())
		require.NoError(t, err)
		assert.True(t, p.OwnershipChecked)
		assert.Equal(t, 2, p.Tier)
		assert.Equal(t, "Prototype", p.MutatedMetadata.Mutation.Category)
	})

	t.Run("asset not owned", func(t *testing.T) {
		e := NewEvolver(stubAssets{assets: owned[1:]}, Config{})
		_, err := e.Preview(ctx, validInputs())
		assert.Equal(t, CodeOwnershipFailed, CodeOf(err))
		assert.Contains(t, err.Error(), "Asset A")
	})

	t.Run("catalyst outside collection", func(t *testing.T) {
		e := NewEvolver(stubAssets{assets: owned}, Config{CatalystCollections: []string{"OtherCol"}})
		_, err := e.Preview(ctx, validInputs())
		assert.Equal(t, CodeOwnershipFailed, CodeOf(err))
		assert.Contains(t, err.Error(), "Catalyst B")
	})

	t.Run("ownership checked before tier", func(t *testing.T) {
		in := validInputs()
		in.CatalystMetadata.Tier = nil
		e := NewEvolver(stubAssets{}, Config{})
		_, err := e.Preview(ctx, in)
		assert.Equal(t, CodeOwnershipFailed, CodeOf(err))
	})

	t.Run("indexer failure", func(t *testing.T) {
		boom := errors.New("boom")
		e := NewEvolver(stubAssets{err: boom}, Config{})
		_, err := e.Preview(ctx, validInputs())
		assert.Equal(t, CodeTransactionFailure, CodeOf(err))
		assert.ErrorIs(t, err, boom)
	})
}
