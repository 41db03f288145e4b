package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/base/metrics"
	"github.com/feralaibot/Feral-Ai-website/src/api/middleware"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/types/v1"
)

func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RecoverMiddleware()) // 使用自定义的恢复中间件，处理 Panic
	r.Use(middleware.RLog())              // 使用请求日志中间件，记录API访问日志

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", types.HeaderGeneratorRequested, types.HeaderGeneratorMinted, types.HeaderGeneratorAttempts},
		AllowCredentials: true,
		MaxAge:           1 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if svcCtx.C != nil && svcCtx.C.Monitor.MetricsEnable {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	loadV1(r, svcCtx)
	return r
}
