package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/feralaibot/Feral-Ai-website/src/dao"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
)

// GetTools 工具列表
func GetTools(ctx context.Context, svcCtx *svc.ServerCtx) ([]dao.Tool, error) {
	tools, err := svcCtx.Dao.QueryTools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed on get tools")
	}
	return tools, nil
}

// GetLore 世界观列表
func GetLore(ctx context.Context, svcCtx *svc.ServerCtx) ([]dao.Lore, error) {
	lore, err := svcCtx.Dao.QueryLore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed on get lore")
	}
	return lore, nil
}
