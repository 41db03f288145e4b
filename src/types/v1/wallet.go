package types

import (
	"github.com/feralaibot/Feral-Ai-website/src/auth"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

// WalletQueryReq 只带钱包公钥的查询参数
type WalletQueryReq struct {
	PublicKey string `form:"publicKey" json:"publicKey" validate:"required,solana_address"`
}

// WalletVerifyReq 钱包签名登录请求
type WalletVerifyReq struct {
	PublicKey string `json:"publicKey" validate:"required,solana_address"`
	Message   string `json:"message" validate:"required"`   // 签名原文, 包含 Address 与 Nonce
	Signature string `json:"signature" validate:"required"` // base58 签名
}

// WalletVerifyResp 登录成功响应: 持仓检查结果 + session
type WalletVerifyResp struct {
	reputation.HoldingsResult
	Session *auth.Session `json:"session"`
}
