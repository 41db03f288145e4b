package reputation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeliusFetchTransactionPage(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/addresses/Wallet1/transactions", r.URL.Path)
		gotQuery.Store(r.URL.Query())
		_, _ = io.WriteString(w, `[{"signature":"s1","timestamp":10,"source":"TENSOR"}]`)
	}))
	defer srv.Close()

	c := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: srv.URL + "/"})
	txs, err := c.FetchTransactionPage(context.Background(), "Wallet1", "cursor", 50)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(10000), *txs[0].TimestampMs)

	q := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"k"}, q["api-key"])
	assert.Equal(t, []string{"50"}, q["limit"])
	assert.Equal(t, []string{"cursor"}, q["before"])
}

func TestHeliusTransactionErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewHeliusClient(HeliusConfig{}).FetchTransactionPage(context.Background(), "w", "", 10)
		assert.ErrorIs(t, err, ErrIndexerNotConfigured)
	})

	t.Run("non array body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"error":"nope"}`)
		}))
		defer srv.Close()
		_, err := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: srv.URL}).FetchTransactionPage(context.Background(), "w", "", 10)
		assert.ErrorContains(t, err, "response invalid")
	})

	t.Run("server error is retried", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = io.WriteString(w, `[]`)
		}))
		defer srv.Close()
		c := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: srv.URL, RetryAttempts: 3, RetrySleep: time.Millisecond})
		txs, err := c.FetchTransactionPage(context.Background(), "w", "", 10)
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		c := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: srv.URL, RetryAttempts: 3, RetrySleep: time.Millisecond})
		_, err := c.FetchTransactionPage(context.Background(), "w", "", 10)
		assert.ErrorContains(t, err, "401")
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}

func TestHeliusFetchAssets(t *testing.T) {
	item := `{"id":"A1","interface":"V1_NFT","content":{"metadata":{"name":"Feral"}},"grouping":[{"group_key":"collection","group_value":"Col"}]}`

	t.Run("rest", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v0/addresses/w/assets", r.URL.Path)
			assert.Equal(t, "1000", r.URL.Query().Get("limit"))
			_, _ = io.WriteString(w, `{"items":[`+item+`, "junk"]}`)
		}))
		defer srv.Close()

		assets, err := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: srv.URL}).FetchAssetsByOwner(context.Background(), "w")
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, "Col", assets[0].Collection)
	})

	t.Run("falls back to rpc", func(t *testing.T) {
		var rpcBody map[string]interface{}
		rpc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&rpcBody))
			_, _ = io.WriteString(w, `{"jsonrpc":"2.0","result":{"items":[`+item+`]}}`)
		}))
		defer rpc.Close()
		rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer rest.Close()

		c := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: rest.URL, RPCURL: rpc.URL})
		assets, err := c.FetchAssetsByOwner(context.Background(), "w")
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, "getAssetsByOwner", rpcBody["method"])
		assert.Equal(t, "w", rpcBody["params"].(map[string]interface{})["ownerAddress"])
	})

	t.Run("rpc error", func(t *testing.T) {
		rpc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"jsonrpc":"2.0","error":{"code":-32000,"message":"rate limited"}}`)
		}))
		defer rpc.Close()
		rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer rest.Close()

		c := NewHeliusClient(HeliusConfig{APIKey: "k", APIBase: rest.URL, RPCURL: rpc.URL})
		_, err := c.FetchAssetsByOwner(context.Background(), "w")
		assert.ErrorContains(t, err, "rate limited")
	})
}
