package service

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
	"github.com/feralaibot/Feral-Ai-website/base/kit/validator"
	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/generator"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
	"github.com/feralaibot/Feral-Ai-website/src/types/v1"
)

// prepareGeneration 解析生成配置与图层 zip, 这一阶段的错误都是参数错误
func prepareGeneration(svcCtx *svc.ServerCtx, layersZip []byte, options string) (*generator.Generator, generator.Options, error) {
	recipe, err := generator.ParseRecipe([]byte(options))
	if err != nil {
		return nil, generator.Options{}, errcode.NewCustomErr(err.Error())
	}
	if err := validator.Verify(recipe); err != nil {
		return nil, generator.Options{}, errcode.NewCustomErr(err.Error())
	}
	opts, err := recipe.Options()
	if err != nil {
		return nil, generator.Options{}, errcode.NewCustomErr(err.Error())
	}
	if limit := svcCtx.C.Generator.MaxSupply; limit > 0 && opts.Supply > limit {
		return nil, generator.Options{}, errcode.NewCustomErr(fmt.Sprintf("supply must be at most %d", limit))
	}

	width, height := recipe.Width, recipe.Height
	if width <= 0 {
		width = svcCtx.C.Generator.Width
	}
	if height <= 0 {
		height = svcCtx.C.Generator.Height
	}

	catalog, err := generator.LoadCatalogFromZip(bytes.NewReader(layersZip), int64(len(layersZip)), width, height)
	if err != nil {
		return nil, generator.Options{}, errcode.NewCustomErr(err.Error())
	}
	return generator.New(catalog), opts, nil
}

// GenerateZip 生成集合并打包为 zip (images/ 与 metadata/)
func GenerateZip(ctx context.Context, svcCtx *svc.ServerCtx, layersZip []byte, options string) (*generator.Result, []byte, error) {
	gen, opts, err := prepareGeneration(svcCtx, layersZip, options)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	sink := generator.NewZipSink(&buf)
	res, err := gen.Generate(ctx, opts, sink)
	if err != nil {
		_ = sink.Close()
		return nil, nil, generationErr(ctx, err)
	}
	if err := sink.Close(); err != nil {
		xzap.WithContext(ctx).Error("failed on close zip sink", zap.Error(err))
		return nil, nil, errcode.ErrUnexpected
	}
	return res, buf.Bytes(), nil
}

// GenerateToS3 生成集合并上传到配置的 bucket, prefix 为空时使用随机目录
func GenerateToS3(ctx context.Context, svcCtx *svc.ServerCtx, layersZip []byte, options, prefix string) (*types.GenerateResp, error) {
	if svcCtx.S3Client == nil {
		return nil, errcode.NewCustomErr("s3 output is not configured")
	}
	gen, opts, err := prepareGeneration(svcCtx, layersZip, options)
	if err != nil {
		return nil, err
	}

	if prefix == "" {
		prefix = uuid.NewString()
	}
	prefix = path.Join(svcCtx.C.S3.Prefix, path.Clean("/" + prefix)[1:])
	sink, err := generator.NewS3Sink(svcCtx.S3Client, svcCtx.C.S3.Bucket, prefix)
	if err != nil {
		return nil, errcode.NewInternalErr(err.Error())
	}
	defer sink.Close()

	res, err := gen.Generate(ctx, opts, sink)
	if err != nil {
		return nil, generationErr(ctx, err)
	}
	return &types.GenerateResp{
		Requested: res.Requested,
		Minted:    res.Minted,
		Attempts:  res.Attempts,
		Partial:   res.Partial(),
		Bucket:    svcCtx.C.S3.Bucket,
		Prefix:    prefix,
	}, nil
}

// generationErr 配置类错误返回 400, 输出失败返回 500
func generationErr(ctx context.Context, err error) error {
	if generator.IsInputError(err) {
		return errcode.NewCustomErr(err.Error())
	}
	xzap.WithContext(ctx).Error("failed on generate collection", zap.Error(err))
	return errcode.NewInternalErr("failed on generate collection")
}
