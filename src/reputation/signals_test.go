package reputation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "WaLLet111"

var testNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func daysAgo(d float64) *int64 {
	ms := testNow.UnixMilli() - int64(d*dayMs)
	return &ms
}

func nftIn(mint string, ts *int64) TransactionRecord {
	return TransactionRecord{
		Signature:      "in-" + mint,
		TimestampMs:    ts,
		TokenTransfers: []TokenTransfer{{Mint: mint, From: "other", To: "wallet111", Amount: 1}},
	}
}

func nftOut(mint string, ts *int64) TransactionRecord {
	return TransactionRecord{
		Signature:      "out-" + mint,
		TimestampMs:    ts,
		TokenTransfers: []TokenTransfer{{Mint: mint, From: "WALLET111", To: "other", Amount: 1}},
	}
}

func testPolicy() Policy {
	p := DefaultPolicy()
	p.Allowlist.Marketplaces = []string{"Magic Eden", "Tensor"}
	p.Allowlist.DefiProgramsOrApps = []string{"jupiter"}
	p.Denylist.SourceTerms = []string{"rug-tool"}
	p.Denylist.HardNegativeTerms = []string{"drainer"}
	return p
}

func TestExtractEmpty(t *testing.T) {
	m := Extract(nil, testWallet, testPolicy(), testNow)

	assert.Equal(t, 0.0, m.WalletAgeDays)
	assert.Equal(t, 0, m.ActiveWeeks)
	assert.Equal(t, 0.0, m.ActivityConsistency)
	assert.Nil(t, m.MedianHoldDays)
	assert.Nil(t, m.FlipRate)
	assert.Nil(t, m.OutboundRatio)
	assert.Equal(t, 0, Score(m, testPolicy().Denylist.BehavioralRules))
}

func TestExtractAgeAndActivity(t *testing.T) {
	txs := []TransactionRecord{
		{Signature: "a", TimestampMs: daysAgo(70)},
		{Signature: "b", TimestampMs: daysAgo(69.5)},
		{Signature: "c", TimestampMs: daysAgo(35)},
		{Signature: "d", TimestampMs: daysAgo(1)},
		{Signature: "no-ts"},
	}
	m := Extract(txs, testWallet, testPolicy(), testNow)

	assert.Equal(t, 5, m.TotalTxCount)
	assert.InDelta(t, 70, m.WalletAgeDays, 1e-9)
	assert.Equal(t, 3, m.ActiveWeeks)
	assert.InDelta(t, 0.3, m.ActivityConsistency, 1e-9)
}

func TestExtractZeroTimestamp(t *testing.T) {
	zero := int64(0)
	txs := []TransactionRecord{
		{Signature: "epoch", TimestampMs: &zero, Source: "SYSTEM_PROGRAM"},
		nftIn("m1", &zero),
	}
	m := Extract(txs, testWallet, testPolicy(), testNow)

	assert.Equal(t, 2, m.TotalTxCount)
	assert.Equal(t, 0.0, m.WalletAgeDays)
	assert.Equal(t, 0, m.ActiveWeeks)
	assert.Nil(t, m.MedianHoldDays)
	assert.Nil(t, m.OutboundRatio)
	assert.Equal(t, 0, Score(m, testPolicy().Denylist.BehavioralRules))
}

func TestExtractSourceMatching(t *testing.T) {
	txs := []TransactionRecord{
		{Source: "MAGIC_EDEN"},
		{Source: "TENSOR", Description: "magic-eden listing"},
		{Description: "swap via Jupiter aggregator"},
		{Source: "UNKNOWN"},
		{Source: "RUG_TOOL"},
	}
	m := Extract(txs, testWallet, testPolicy(), testNow)

	assert.Equal(t, 3, m.AllowlistedSourceCount)
	// 第二笔记录的是列表中靠前的 "Magic Eden"
	assert.Equal(t, 2, m.UniqueAllowlistedSources)
	assert.True(t, m.DenylistHit)
	assert.False(t, m.HardNegativeHit)
}

func TestExtractHolds(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		// 索引服务按新到旧返回
		txs := []TransactionRecord{
			nftOut("m1", daysAgo(10)),
			nftIn("m1", daysAgo(40)),
		}
		m := Extract(txs, testWallet, testPolicy(), testNow)
		require.NotNil(t, m.MedianHoldDays)
		assert.InDelta(t, 30, *m.MedianHoldDays, 1e-9)
		assert.Equal(t, 0.0, *m.FlipRate)
		assert.Equal(t, 0, m.MintAndDumpCount)
	})

	t.Run("outbound before inbound ignored", func(t *testing.T) {
		txs := []TransactionRecord{
			nftOut("m1", daysAgo(50)),
			nftIn("m1", daysAgo(20)),
		}
		m := Extract(txs, testWallet, testPolicy(), testNow)
		require.NotNil(t, m.MedianHoldDays)
		assert.InDelta(t, 20, *m.MedianHoldDays, 1e-9)
	})

	t.Run("mint and dump", func(t *testing.T) {
		in := daysAgo(5)
		out := *in + 30*60*1000
		txs := []TransactionRecord{
			nftIn("m1", in),
			nftOut("m1", &out),
			nftIn("m2", daysAgo(3)),
			nftIn("m3", daysAgo(100)),
		}
		m := Extract(txs, testWallet, testPolicy(), testNow)
		assert.Equal(t, 1, m.MintAndDumpCount)
		// 排序后 [0.02, 3, 100], 取下标 1
		require.NotNil(t, m.MedianHoldDays)
		assert.InDelta(t, 3, *m.MedianHoldDays, 1e-9)
		require.NotNil(t, m.FlipRate)
		assert.InDelta(t, 1.0/3, *m.FlipRate, 1e-9)
	})

	t.Run("non nft transfers only affect outbound ratio", func(t *testing.T) {
		txs := []TransactionRecord{{
			TimestampMs: daysAgo(2),
			TokenTransfers: []TokenTransfer{
				{Mint: "usdc", From: "wallet111", To: "x", Amount: 5, Decimals: 6},
				{Mint: "usdc", From: "wallet111", To: "x", Amount: 1, Decimals: 6},
				{Mint: "usdc", From: "x", To: "wallet111", Amount: 3, Decimals: 6},
				{Mint: "", From: "wallet111", To: "x", Amount: 1},
			},
		}}
		m := Extract(txs, testWallet, testPolicy(), testNow)
		assert.Nil(t, m.MedianHoldDays)
		require.NotNil(t, m.OutboundRatio)
		assert.InDelta(t, 2.0/3, *m.OutboundRatio, 1e-9)
	})

	t.Run("transfers without timestamp ignored", func(t *testing.T) {
		m := Extract([]TransactionRecord{nftIn("m1", nil)}, testWallet, testPolicy(), testNow)
		assert.Nil(t, m.MedianHoldDays)
		assert.Nil(t, m.OutboundRatio)
	})
}

func TestWeekOf(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	jan8 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC).UnixMilli()
	dec31 := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC).UnixMilli()

	assert.Equal(t, weekKey{2024, 1}, weekOf(jan1))
	assert.Equal(t, weekKey{2024, 2}, weekOf(jan8))
	assert.Equal(t, weekKey{2023, 53}, weekOf(dec31))
}

func TestNormalizeMatchKey(t *testing.T) {
	assert.Equal(t, "magiceden", normalizeMatchKey("Magic-Eden!"))
	assert.Equal(t, "", normalizeMatchKey("--"))

	m := newTermMatcher([]string{"", "!!", "Tensor"})
	term, ok := m.first("", "tensor_swap")
	assert.True(t, ok)
	assert.Equal(t, "Tensor", term)
	assert.False(t, m.matches("anything else"))
}
