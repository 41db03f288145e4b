package middleware

import (
	"net/http/httputil"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/base/xhttp"
)

// RecoverMiddleware 捕获 handler 中的 panic, 记录请求与堆栈后返回 500
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				req, _ := httputil.DumpRequest(c.Request, false)
				xzap.WithContext(c.Request.Context()).Error("[Recovery] panic recovered",
					zap.Any("error", r),
					zap.String("request", string(req)),
					zap.String("stack", string(debug.Stack())))
				xhttp.Error(c, errcode.ErrUnexpected)
			}
		}()
		c.Next()
	}
}
