package router

import (
	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/src/api/middleware"
	"github.com/feralaibot/Feral-Ai-website/src/api/v1"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
)

func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	apiV1 := r.Group("/api/v1")

	apiV1.GET("/tools", v1.ToolsListHandler(svcCtx))
	apiV1.GET("/lore", v1.LoreListHandler(svcCtx))

	wallet := apiV1.Group("/wallet")
	{
		wallet.GET("/nonce", v1.WalletNonceHandler(svcCtx))
		wallet.POST("/verify", v1.WalletVerifyHandler(svcCtx))

		// 以下接口需要 bearer session
		wallet.GET("/assets", middleware.WalletAuth(svcCtx.Auth), v1.WalletAssetsHandler(svcCtx))
		wallet.GET("/scan", middleware.WalletAuth(svcCtx.Auth), v1.WalletScanHandler(svcCtx))
	}

	apiV1.POST("/evolve/preview", middleware.WalletAuth(svcCtx.Auth), v1.EvolvePreviewHandler(svcCtx))
	apiV1.POST("/generator/generate", v1.GenerateHandler(svcCtx))
}
