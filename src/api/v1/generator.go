package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/kit/validator"
	"github.com/feralaibot/Feral-Ai-website/base/xhttp"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/service/v1"
	"github.com/feralaibot/Feral-Ai-website/src/types/v1"
)

const layersFormField = "layers"

// GenerateHandler 上传图层 zip 生成集合
// 1. 读取 multipart 中的图层 zip 与 options
// 2. target=zip (默认) 直接返回 zip, 数量写在 X-Generator-* 响应头
// 3. target=s3 上传到配置的 bucket, 返回 JSON 摘要
func GenerateHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := types.GenerateReq{}
		if err := c.ShouldBind(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := validator.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		layers, err := readLayersZip(c, svcCtx.C.Api.MaxNum<<20)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		if req.Target == types.GeneratorTargetS3 {
			res, err := service.GenerateToS3(c.Request.Context(), svcCtx, layers, req.Options, req.Prefix)
			if err != nil {
				xhttp.Error(c, err)
				return
			}
			xhttp.OkJson(c, res)
			return
		}

		res, archive, err := service.GenerateZip(c.Request.Context(), svcCtx, layers, req.Options)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		c.Header(types.HeaderGeneratorRequested, strconv.Itoa(res.Requested))
		c.Header(types.HeaderGeneratorMinted, strconv.Itoa(res.Minted))
		c.Header(types.HeaderGeneratorAttempts, strconv.Itoa(res.Attempts))
		c.Header("Content-Disposition", `attachment; filename="collection.zip"`)
		c.Data(http.StatusOK, "application/zip", archive)
	}
}

func readLayersZip(c *gin.Context, limit int64) ([]byte, error) {
	fh, err := c.FormFile(layersFormField)
	if err != nil {
		return nil, errcode.NewCustomErr("layers zip is required")
	}
	if limit > 0 && fh.Size > limit {
		return nil, errcode.NewCustomErr("layers zip is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errcode.NewCustomErr("failed on open layers zip")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errcode.NewCustomErr("failed on read layers zip")
	}
	return data, nil
}
