package reputation

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TokenTransfer 交易中的一笔代币转账
type TokenTransfer struct {
	Mint     string  `json:"mint"`
	From     string  `json:"fromUserAccount"`
	To       string  `json:"toUserAccount"`
	Amount   float64 `json:"tokenAmount"`
	Decimals int     `json:"decimals"`
}

// IsNFTUnit 数量为 1 且精度为 0 的转账视为一个 NFT
func (t TokenTransfer) IsNFTUnit() bool {
	return t.Decimals == 0 && t.Amount == 1
}

// TransactionRecord 索引服务返回的一笔交易, 只读
type TransactionRecord struct {
	Signature      string          `json:"signature"`
	TimestampMs    *int64          `json:"timestampMs,omitempty"`
	Source         string          `json:"source"`
	Description    string          `json:"description"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
}

// UnmarshalJSON 宽松解析, timestamp 或 blockTime (秒) 转换为毫秒
func (t *TransactionRecord) UnmarshalJSON(b []byte) error {
	m, err := decodeLoose(b)
	if err != nil {
		return errors.Wrap(err, "failed on decode transaction")
	}

	*t = TransactionRecord{
		Signature:   stringOf(m["signature"]),
		Source:      stringOf(m["source"]),
		Description: stringOf(m["description"]),
	}
	// 0 或负数视为没有时间戳
	if ms, ok := m["timestampMs"]; ok {
		if v, ok := numberOf(ms); ok && v > 0 {
			ts := int64(v)
			t.TimestampMs = &ts
		}
	} else if v, ok := numberOf(firstPresent(m["timestamp"], m["blockTime"])); ok && v > 0 {
		ts := int64(v * 1000)
		t.TimestampMs = &ts
	}

	for _, raw := range arrayOf(m["tokenTransfers"]) {
		tm := objectOf(raw)
		if tm == nil {
			continue
		}
		t.TokenTransfers = append(t.TokenTransfers, parseTransfer(tm))
	}
	return nil
}

func parseTransfer(m map[string]interface{}) TokenTransfer {
	tr := TokenTransfer{
		Mint: stringOf(m["mint"]),
		From: stringOf(firstPresent(m["fromUserAccount"], m["from"])),
		To:   stringOf(firstPresent(m["toUserAccount"], m["to"])),
	}

	rawAmount := firstPresent(m["tokenAmount"], m["amount"])
	rawDecimals := m["decimals"]
	// tokenAmount 也可能是 {amount, decimals} 对象
	if obj := objectOf(rawAmount); obj != nil {
		rawAmount = firstPresent(obj["uiAmount"], obj["amount"])
		rawDecimals = firstPresent(rawDecimals, obj["decimals"])
	}
	if rawAmount == nil {
		if raw := objectOf(m["rawTokenAmount"]); raw != nil {
			rawAmount = raw["tokenAmount"]
			rawDecimals = firstPresent(rawDecimals, raw["decimals"])
		}
	}

	if v, ok := numberOf(rawAmount); ok {
		tr.Amount = v
	}
	if v, ok := numberOf(rawDecimals); ok {
		tr.Decimals = int(v)
	}
	return tr
}

// Asset DAS 资产 (NFT, 压缩 NFT 或同质化代币)
type Asset struct {
	ID         string          `json:"id"`
	Interface  string          `json:"interface"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	Collection string          `json:"collection,omitempty"`
	Compressed bool            `json:"compressed"`
	Balance    decimal.Decimal `json:"balance"` // 同质化代币的 UI 余额
	Decimals   int             `json:"decimals"`
}

// IsNFT 接口类型包含 nft / compressed 或者是压缩资产
func (a Asset) IsNFT() bool {
	it := strings.ToLower(a.Interface)
	return strings.Contains(it, "nft") || strings.Contains(it, "compressed") || a.Compressed
}

func (a *Asset) UnmarshalJSON(b []byte) error {
	m, err := decodeLoose(b)
	if err != nil {
		return errors.Wrap(err, "failed on decode asset")
	}

	*a = Asset{
		ID:         stringOf(firstPresent(m["id"], m["mint"])),
		Interface:  stringOf(m["interface"]),
		Name:       stringOf(field(m, "content", "metadata", "name")),
		Compressed: boolOf(field(m, "compression", "compressed")),
	}
	if a.Name == "" {
		a.Name = stringOf(m["name"])
	}

	a.Image = stringOf(field(m, "content", "links", "image"))
	if a.Image == "" {
		for _, f := range arrayOf(field(m, "content", "files")) {
			if uri := stringOf(objectOf(f)["uri"]); uri != "" {
				a.Image = uri
				break
			}
		}
	}

	for _, g := range arrayOf(m["grouping"]) {
		gm := objectOf(g)
		if stringOf(gm["group_key"]) == "collection" {
			a.Collection = stringOf(gm["group_value"])
			break
		}
	}

	if info := objectOf(m["token_info"]); info != nil {
		if d, ok := numberOf(info["decimals"]); ok {
			a.Decimals = int(d)
		}
		if bal, ok := decimalOf(info["balance"]); ok {
			a.Balance = bal.Shift(int32(-a.Decimals))
		}
	}
	return nil
}

// assetPage DAS 返回 {items: [...]}
type assetPage struct {
	Items []json.RawMessage `json:"items"`
}
