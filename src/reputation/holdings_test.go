package reputation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHoldings(t *testing.T) {
	assets := []Asset{
		{ID: "NftMint1", Interface: "V1_NFT", Collection: "FeralCol"},
		{ID: "MILK", Interface: "FungibleToken", Balance: decimal.NewFromFloat(0.6)},
		{ID: "MILK", Interface: "FungibleToken", Balance: decimal.NewFromFloat(0.5)},
	}
	idx := &fakeIndexer{assets: assets}
	ctx := context.Background()

	tests := []struct {
		name     string
		req      AccessRequirements
		eligible bool
		tier     AccessTier
	}{
		{"no requirements", AccessRequirements{}, true, AccessTierLegendary},
		{"nft by collection", AccessRequirements{RequiredNFTs: []string{"feralcol"}}, true, AccessTierLegendary},
		{"nft by mint", AccessRequirements{RequiredNFTs: []string{"nftmint1"}}, true, AccessTierLegendary},
		{"nft missing", AccessRequirements{RequiredNFTs: []string{"other"}}, false, AccessTierStandard},
		{"token summed", AccessRequirements{RequiredTokenMint: "MILK", RequiredTokenMin: 1}, true, AccessTierLegendary},
		{"token below min", AccessRequirements{RequiredTokenMint: "MILK", RequiredTokenMin: 2}, false, AccessTierStandard},
		{"either suffices", AccessRequirements{RequiredNFTs: []string{"other"}, RequiredTokenMint: "MILK", RequiredTokenMin: 1}, true, AccessTierStandard},
		{"neither", AccessRequirements{RequiredNFTs: []string{"other"}, RequiredTokenMint: "MILK", RequiredTokenMin: 5}, false, AccessTierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CheckHoldings(ctx, idx, "w", tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, res.IsEligible)
			assert.Equal(t, tt.tier, res.AccessTier)
		})
	}

	_, err := CheckHoldings(ctx, &fakeIndexer{assetsErr: errors.New("down")}, "w", AccessRequirements{RequiredTokenMint: "MILK"})
	assert.Error(t, err)
}

func TestFetchAllowedAssets(t *testing.T) {
	ctx := context.Background()
	idx := &fakeIndexer{assets: []Asset{
		{ID: "a", Name: "Feral #1", Image: "img", Collection: "FERALS"},
		{ID: "b", Collection: "milkcol"},
		{ID: "c", Collection: "other"},
		{ID: "d"},
	}}

	out, err := FetchAllowedAssets(ctx, idx, "w", AllowedCollections{FeralCollections: []string{"ferals "}, MilkCollections: []string{"MilkCol"}})
	require.NoError(t, err)
	require.Len(t, out.Ferals, 1)
	assert.Equal(t, "Feral #1", out.Ferals[0].Name)
	assert.Equal(t, "img", *out.Ferals[0].Image)
	require.Len(t, out.Milk, 1)
	assert.Equal(t, unknownAssetName, out.Milk[0].Name)
	assert.Nil(t, out.Milk[0].Image)

	empty := &fakeIndexer{}
	out, err = FetchAllowedAssets(ctx, empty, "w", AllowedCollections{})
	require.NoError(t, err)
	assert.Empty(t, out.Ferals)
	assert.Equal(t, 0, empty.assetHits)
}

func TestLoadAllowedCollections(t *testing.T) {
	file := filepath.Join(t.TempDir(), "allowed-assets.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"feralCollections":["A"],"milkCollections":["B","C"]}`), 0o644))

	c, err := LoadAllowedCollections(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, c.FeralCollections)
	assert.Equal(t, []string{"B", "C"}, c.MilkCollections)

	_, err = LoadAllowedCollections(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
