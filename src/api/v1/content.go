package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/xhttp"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/service/v1"
)

// ToolsListHandler 工具列表
func ToolsListHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetTools(c.Request.Context(), svcCtx)
		if err != nil {
			xhttp.Error(c, errcode.NewInternalErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}

// LoreListHandler 世界观列表
func LoreListHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := service.GetLore(c.Request.Context(), svcCtx)
		if err != nil {
			xhttp.Error(c, errcode.NewInternalErr(err.Error()))
			return
		}
		xhttp.OkJson(c, res)
	}
}
