package reputation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/feralaibot/Feral-Ai-website/base/metrics"
)

const (
	DefaultPageLimit = 100
	DefaultMaxPages  = 20
)

// TransactionAggregator 按签名游标分页拉取交易历史, 页数有上限
type TransactionAggregator struct {
	indexer   TransactionIndexer
	pageLimit int
	maxPages  int
}

func NewTransactionAggregator(indexer TransactionIndexer, pageLimit, maxPages int) *TransactionAggregator {
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &TransactionAggregator{indexer: indexer, pageLimit: pageLimit, maxPages: maxPages}
}

// Aggregate 遇到空页或游标为空时停止, 任一页失败即返回错误
func (a *TransactionAggregator) Aggregate(ctx context.Context, address string) ([]TransactionRecord, error) {
	var (
		all    []TransactionRecord
		before string
	)
	for page := 0; page < a.maxPages; page++ {
		batch, err := a.indexer.FetchTransactionPage(ctx, address, before, a.pageLimit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed on fetch transaction page %d", page)
		}
		metrics.IndexerPages.Inc()
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)

		before = batch[len(batch)-1].Signature
		if before == "" {
			break
		}
	}
	return all, nil
}
