package reputation

import (
	"context"
	"strconv"
	"sync"
)

// fakeIndexer 内存中的索引服务, pages 按 before 游标顺序返回
type fakeIndexer struct {
	mu        sync.Mutex
	pages     [][]TransactionRecord
	assets    []Asset
	txErr     error
	assetsErr error
	calls     []string // 每次调用收到的 before
	assetHits int
}

func (f *fakeIndexer) FetchTransactionPage(_ context.Context, _ string, before string, _ int) ([]TransactionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, before)
	if f.txErr != nil {
		return nil, f.txErr
	}
	idx := 0
	if before != "" {
		// 游标格式 "p<page>-<n>"
		for i, p := range f.pages {
			if len(p) > 0 && p[len(p)-1].Signature == before {
				idx = i + 1
			}
		}
	}
	if idx >= len(f.pages) {
		return nil, nil
	}
	return f.pages[idx], nil
}

func (f *fakeIndexer) FetchAssetsByOwner(_ context.Context, _ string) ([]Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assetHits++
	if f.assetsErr != nil {
		return nil, f.assetsErr
	}
	return f.assets, nil
}

func makePage(page, n int) []TransactionRecord {
	txs := make([]TransactionRecord, n)
	for i := range txs {
		txs[i] = TransactionRecord{Signature: "p" + strconv.Itoa(page) + "-" + strconv.Itoa(i)}
	}
	return txs
}
