package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/kit/validator"
	"github.com/feralaibot/Feral-Ai-website/base/xhttp"
	"github.com/feralaibot/Feral-Ai-website/src/api/middleware"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/service/v1"
	"github.com/feralaibot/Feral-Ai-website/src/types/v1"
)

// bindWalletQuery 解析 ?publicKey= 并校验格式
func bindWalletQuery(c *gin.Context) (string, bool) {
	req := types.WalletQueryReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		xhttp.Error(c, errcode.ErrInvalidParams)
		return "", false
	}
	if err := validator.Verify(&req); err != nil {
		xhttp.Error(c, errcode.NewCustomErr(err.Error()))
		return "", false
	}
	return req.PublicKey, true
}

// bindVerifiedWallet 查询的钱包必须是 session 对应的钱包
func bindVerifiedWallet(c *gin.Context) (string, bool) {
	publicKey, ok := bindWalletQuery(c)
	if !ok {
		return "", false
	}
	if middleware.VerifiedWallet(c) != publicKey {
		xhttp.Error(c, errcode.ErrForbidden)
		return "", false
	}
	return publicKey, true
}

// WalletNonceHandler 获取登录 nonce
func WalletNonceHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicKey, ok := bindWalletQuery(c)
		if !ok {
			return
		}

		res, err := service.GetWalletNonce(c.Request.Context(), svcCtx, publicKey)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// WalletVerifyHandler 钱包签名登录
// 1. 解析并校验请求体
// 2. 验签, 检查持仓门槛, 颁发 session
func WalletVerifyHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := types.WalletVerifyReq{}
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := validator.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		res, err := service.VerifyWallet(c.Request.Context(), svcCtx, req, c.Request.UserAgent())
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// WalletAssetsHandler 钱包中可用于进化的资产
func WalletAssetsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicKey, ok := bindVerifiedWallet(c)
		if !ok {
			return
		}

		res, err := service.GetAllowedAssets(c.Request.Context(), svcCtx, publicKey)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// WalletScanHandler 钱包评分
func WalletScanHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		publicKey, ok := bindVerifiedWallet(c)
		if !ok {
			return
		}

		res, err := service.ScanWallet(c.Request.Context(), svcCtx, publicKey)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}
