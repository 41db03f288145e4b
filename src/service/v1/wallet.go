package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/base/metrics"
	"github.com/feralaibot/Feral-Ai-website/src/auth"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/types/v1"
)

// GetWalletNonce 生成登录 nonce
func GetWalletNonce(ctx context.Context, svcCtx *svc.ServerCtx, publicKey string) (*auth.Nonce, error) {
	nonce, err := svcCtx.Auth.IssueNonce(publicKey)
	if err != nil {
		xzap.WithContext(ctx).Error("failed on issue nonce", zap.String("public_key", publicKey), zap.Error(err))
		return nil, errcode.ErrUnexpected
	}
	return nonce, nil
}

// VerifyWallet 钱包签名登录
// 1. 校验签名原文包含该钱包地址
// 2. 消费 nonce (一次性, 有效期内, 属于该钱包)
// 3. ed25519 验签
// 4. 检查持仓门槛并颁发 session
func VerifyWallet(ctx context.Context, svcCtx *svc.ServerCtx, req types.WalletVerifyReq, userAgent string) (*types.WalletVerifyResp, error) {
	if err := svcCtx.Auth.Verify(req.PublicKey, req.Message, req.Signature); err != nil {
		switch {
		case errors.Is(err, auth.ErrMessageMismatch):
			return nil, errcode.NewCustomErr("Signature message does not match wallet.")
		case errors.Is(err, auth.ErrNonceInvalid):
			return nil, errcode.ErrTokenExpire
		case errors.Is(err, auth.ErrSignature):
			return nil, errcode.ErrSignature
		default:
			xzap.WithContext(ctx).Error("failed on verify wallet", zap.String("public_key", req.PublicKey), zap.Error(err))
			return nil, errcode.ErrUnexpected
		}
	}

	holdings, err := reputation.CheckHoldings(ctx, svcCtx.Indexer, req.PublicKey, svcCtx.C.Holdings)
	if err != nil {
		return nil, errcode.NewInternalErr("failed on check holdings")
	}

	session, err := svcCtx.Auth.CreateSession(req.PublicKey, userAgent)
	if err != nil {
		xzap.WithContext(ctx).Error("failed on create session", zap.Error(err))
		return nil, errcode.ErrUnexpected
	}

	return &types.WalletVerifyResp{HoldingsResult: *holdings, Session: session}, nil
}

// GetAllowedAssets 钱包中属于 ferals / milk 集合的资产
func GetAllowedAssets(ctx context.Context, svcCtx *svc.ServerCtx, publicKey string) (*reputation.AllowedAssets, error) {
	assets, err := reputation.FetchAllowedAssets(ctx, svcCtx.Indexer, publicKey, svcCtx.Allowed)
	if err != nil {
		xzap.WithContext(ctx).Error("failed on fetch allowed assets", zap.String("public_key", publicKey), zap.Error(err))
		return nil, errcode.NewInternalErr("failed on fetch wallet assets")
	}
	return assets, nil
}

// ScanWallet 钱包评分, 同一钱包的并发请求共享一次计算
func ScanWallet(ctx context.Context, svcCtx *svc.ServerCtx, publicKey string) (*reputation.Report, error) {
	report, err := svcCtx.Scanner.Evaluate(ctx, publicKey)
	if err != nil {
		metrics.WalletScans.WithLabelValues("error").Inc()
		xzap.WithContext(ctx).Error("failed on scan wallet", zap.String("public_key", publicKey), zap.Error(err))
		return nil, errcode.NewInternalErr("failed on scan wallet")
	}
	metrics.WalletScans.WithLabelValues("ok").Inc()
	return report, nil
}
