package reputation

import (
	"math"
	"sort"
	"strings"
	"time"
)

const dayMs = 86400000

// Metrics 从交易历史中提取的信号, 每次请求重新计算
type Metrics struct {
	WalletAgeDays            float64  `json:"walletAgeDays"`
	TotalTxCount             int      `json:"totalTxCount"`
	ActiveWeeks              int      `json:"activeWeeks"`
	ActivityConsistency      float64  `json:"activityConsistency"`
	MedianHoldDays           *float64 `json:"medianHoldDays"`
	FlipRate                 *float64 `json:"flipRate"`
	AllowlistedSourceCount   int      `json:"allowlistedSourceCount"`
	UniqueAllowlistedSources int      `json:"uniqueAllowlistedSources"`
	MintAndDumpCount         int      `json:"mintAndDumpCount"`
	OutboundRatio            *float64 `json:"outboundRatio"`
	DenylistHit              bool     `json:"denylistHit"`
	HardNegativeHit          bool     `json:"hardNegativeHit"`
}

type weekKey struct {
	year int
	week int
}

// weekOf UTC 年份 + floor(dayOfYear / 7) + 1
func weekOf(ms int64) weekKey {
	t := time.UnixMilli(ms).UTC()
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	dayOfYear := (ms - yearStart.UnixMilli()) / dayMs
	return weekKey{year: t.Year(), week: int(dayOfYear/7) + 1}
}

type holdRecord struct {
	firstIn  *int64
	outbound []int64
}

// Extract 计算钱包信号. 地址比较大小写不敏感, 没有时间戳的交易只参与名单匹配和交易计数
func Extract(txs []TransactionRecord, wallet string, policy Policy, now time.Time) Metrics {
	nowMs := now.UnixMilli()
	walletKey := strings.ToLower(wallet)

	allow := newTermMatcher(policy.AllowlistTerms())
	deny := newTermMatcher(policy.Denylist.SourceTerms)
	hardNeg := newTermMatcher(policy.Denylist.HardNegativeTerms)

	m := Metrics{TotalTxCount: len(txs)}

	var oldest *int64
	weeks := make(map[weekKey]struct{})
	matched := make(map[string]struct{})
	holds := make(map[string]*holdRecord)
	var inbound, outbound int

	for _, tx := range txs {
		if term, ok := allow.first(tx.Source, tx.Description); ok {
			m.AllowlistedSourceCount++
			matched[term] = struct{}{}
		}
		if deny.matches(tx.Source, tx.Description) {
			m.DenylistHit = true
		}
		if hardNeg.matches(tx.Source, tx.Description) {
			m.HardNegativeHit = true
		}

		if tx.TimestampMs == nil || *tx.TimestampMs <= 0 {
			continue
		}
		ts := *tx.TimestampMs
		if oldest == nil || ts < *oldest {
			v := ts
			oldest = &v
		}
		weeks[weekOf(ts)] = struct{}{}

		for _, tr := range tx.TokenTransfers {
			if tr.Mint == "" {
				continue
			}
			from := strings.ToLower(tr.From)
			to := strings.ToLower(tr.To)
			if from == walletKey {
				outbound++
			}
			if to == walletKey {
				inbound++
			}
			if !tr.IsNFTUnit() {
				continue
			}

			rec, ok := holds[tr.Mint]
			if !ok {
				rec = &holdRecord{}
				holds[tr.Mint] = rec
			}
			if to == walletKey && (rec.firstIn == nil || ts < *rec.firstIn) {
				v := ts
				rec.firstIn = &v
			}
			if from == walletKey {
				rec.outbound = append(rec.outbound, ts)
			}
		}
	}

	if oldest != nil {
		m.WalletAgeDays = float64(nowMs-*oldest) / dayMs
	}
	m.ActiveWeeks = len(weeks)
	totalWeeks := math.Max(1, math.Ceil(m.WalletAgeDays/7))
	m.ActivityConsistency = math.Max(0, math.Min(1, float64(m.ActiveWeeks)/totalWeeks))
	m.UniqueAllowlistedSources = len(matched)

	mintDumpMs := policy.Denylist.BehavioralRules.MintAndDumpUnderMinutes * 60 * 1000
	durations := make([]float64, 0, len(holds))
	for _, rec := range holds {
		if rec.firstIn == nil {
			continue
		}
		// 最早的, 不早于首次转入的转出
		var firstOut *int64
		for i := range rec.outbound {
			out := rec.outbound[i]
			if out >= *rec.firstIn && (firstOut == nil || out < *firstOut) {
				firstOut = &rec.outbound[i]
			}
		}

		end := nowMs
		if firstOut != nil {
			end = *firstOut
		}
		durationMs := end - *rec.firstIn
		if durationMs < 0 {
			durationMs = 0
		}
		if firstOut != nil && float64(durationMs) <= mintDumpMs {
			m.MintAndDumpCount++
		}
		durations = append(durations, float64(durationMs)/dayMs)
	}

	if len(durations) > 0 {
		sort.Float64s(durations)
		median := durations[len(durations)/2]
		m.MedianHoldDays = &median

		flips := 0
		for _, d := range durations {
			if d < 1 {
				flips++
			}
		}
		rate := float64(flips) / float64(len(durations))
		m.FlipRate = &rate
	}

	if total := inbound + outbound; total > 0 {
		ratio := float64(outbound) / float64(total)
		m.OutboundRatio = &ratio
	}
	return m
}
