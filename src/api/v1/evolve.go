package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/xhttp"
	"github.com/feralaibot/Feral-Ai-website/src/api/middleware"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/service/v1"
	"github.com/feralaibot/Feral-Ai-website/src/types/v1"
)

// EvolvePreviewHandler 进化预览, 钱包取自 session
func EvolvePreviewHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := types.EvolvePreviewReq{}
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		wallet := middleware.VerifiedWallet(c)
		if req.WalletPublicKey != "" && req.WalletPublicKey != wallet {
			xhttp.Error(c, errcode.ErrForbidden)
			return
		}
		req.WalletPublicKey = wallet

		res, err := service.PreviewEvolution(c.Request.Context(), svcCtx, req.Inputs)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, types.EvolvePreviewResp{Result: res})
	}
}
