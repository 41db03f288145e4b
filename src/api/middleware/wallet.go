package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/base/xhttp"
	"github.com/feralaibot/Feral-Ai-website/src/auth"
)

// VerifiedWalletKey gin.Context 中保存已验证钱包公钥的 key
const VerifiedWalletKey = "verified_wallet"

// WalletAuth 校验 bearer session, 通过后将钱包公钥写入上下文
func WalletAuth(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		session, err := a.GetSession(token, c.Request.UserAgent())
		if err != nil {
			xzap.WithContext(c.Request.Context()).Error("failed on load wallet session", zap.Error(err))
			xhttp.Error(c, errcode.ErrUnexpected)
			return
		}
		if session == nil {
			xhttp.Error(c, errcode.ErrUnauthorized)
			return
		}
		c.Set(VerifiedWalletKey, session.PublicKey)
		c.Next()
	}
}

// VerifiedWallet 取出已验证的钱包公钥
func VerifiedWallet(c *gin.Context) string {
	return c.GetString(VerifiedWalletKey)
}
