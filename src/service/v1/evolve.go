package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/evolution"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
)

// PreviewEvolution 生成进化预览, 进化错误原样返回提示信息
func PreviewEvolution(ctx context.Context, svcCtx *svc.ServerCtx, in evolution.Inputs) (*evolution.Preview, error) {
	preview, err := svcCtx.Evolver.Preview(ctx, in)
	if err == nil {
		return preview, nil
	}

	switch evolution.CodeOf(err) {
	case evolution.CodeTransactionFailure:
		return nil, errcode.NewInternalErr(err.Error())
	case "":
		xzap.WithContext(ctx).Error("failed on preview evolution", zap.Error(err))
		return nil, errcode.ErrUnexpected
	default:
		return nil, errcode.NewCustomErr(err.Error())
	}
}
