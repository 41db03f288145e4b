package reputation

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRecordUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantTs  *int64
		check   func(t *testing.T, tx TransactionRecord)
	}{
		{
			name:    "timestamp seconds",
			payload: `{"signature":"s1","timestamp":1700000000,"source":"MAGIC_EDEN","description":"bought"}`,
			wantTs:  ptr(int64(1700000000000)),
			check: func(t *testing.T, tx TransactionRecord) {
				assert.Equal(t, "s1", tx.Signature)
				assert.Equal(t, "MAGIC_EDEN", tx.Source)
				assert.Equal(t, "bought", tx.Description)
			},
		},
		{
			name:    "zero timestamp is absent",
			payload: `{"signature":"s0","timestamp":0,"source":"SYSTEM_PROGRAM"}`,
		},
		{
			name:    "zero blockTime is absent",
			payload: `{"signature":"s0","blockTime":0}`,
		},
		{
			name:    "blockTime fallback",
			payload: `{"signature":"s2","blockTime":"1700000001"}`,
			wantTs:  ptr(int64(1700000001000)),
		},
		{
			name:    "missing fields",
			payload: `{"tokenTransfers":[{"mint":"m"}, 5]}`,
			check: func(t *testing.T, tx TransactionRecord) {
				assert.Empty(t, tx.Signature)
				require.Len(t, tx.TokenTransfers, 1)
				assert.Equal(t, 0.0, tx.TokenTransfers[0].Amount)
				assert.Equal(t, 0, tx.TokenTransfers[0].Decimals)
			},
		},
		{
			name:    "transfer shapes",
			payload: `{"timestamp":1,"tokenTransfers":[{"mint":"a","fromUserAccount":"X","toUserAccount":"Y","tokenAmount":1},{"mint":"b","amount":"2.5","decimals":"6"},{"mint":"c","tokenAmount":{"amount":"1","decimals":0}},{"mint":"d","rawTokenAmount":{"tokenAmount":"1","decimals":0}}]}`,
			wantTs:  ptr(int64(1000)),
			check: func(t *testing.T, tx TransactionRecord) {
				require.Len(t, tx.TokenTransfers, 4)
				assert.Equal(t, TokenTransfer{Mint: "a", From: "X", To: "Y", Amount: 1}, tx.TokenTransfers[0])
				assert.True(t, tx.TokenTransfers[0].IsNFTUnit())
				assert.Equal(t, 2.5, tx.TokenTransfers[1].Amount)
				assert.Equal(t, 6, tx.TokenTransfers[1].Decimals)
				assert.True(t, tx.TokenTransfers[2].IsNFTUnit())
				assert.True(t, tx.TokenTransfers[3].IsNFTUnit())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tx TransactionRecord
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &tx))
			assert.Equal(t, tt.wantTs, tx.TimestampMs)
			if tt.check != nil {
				tt.check(t, tx)
			}
		})
	}
}

func TestTransactionRecordUnmarshalArray(t *testing.T) {
	var txs []TransactionRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"signature":"a"},{"signature":"b","timestamp":null}]`), &txs))
	require.Len(t, txs, 2)
	assert.Nil(t, txs[1].TimestampMs)

	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &txs))
}

func TestAssetUnmarshal(t *testing.T) {
	payload := `{
		"id": "Asset1",
		"interface": "V1_NFT",
		"content": {"metadata": {"name": "Feral #1"}, "links": {}, "files": [{"mime":"image/png"},{"uri":"https://img/1.png"}]},
		"grouping": [{"group_key":"creator","group_value":"x"},{"group_key":"collection","group_value":"ColA"}],
		"compression": {"compressed": false}
	}`
	var a Asset
	require.NoError(t, json.Unmarshal([]byte(payload), &a))
	assert.Equal(t, "Asset1", a.ID)
	assert.Equal(t, "Feral #1", a.Name)
	assert.Equal(t, "https://img/1.png", a.Image)
	assert.Equal(t, "ColA", a.Collection)
	assert.True(t, a.IsNFT())

	var tok Asset
	require.NoError(t, json.Unmarshal([]byte(`{"id":"Mint","interface":"FungibleToken","token_info":{"balance":2500000,"decimals":6}}`), &tok))
	assert.False(t, tok.IsNFT())
	assert.True(t, decimal.RequireFromString("2.5").Equal(tok.Balance))
	assert.Equal(t, 6, tok.Decimals)

	var cnft Asset
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c","interface":"Custom","compression":{"compressed":true}}`), &cnft))
	assert.True(t, cnft.IsNFT())
}

func ptr[T any](v T) *T {
	return &v
}
