package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/config"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
)

const shutdownTimeout = 10 * time.Second

// Platform 应用容器, 持有配置、路由与服务上下文
type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
	server    *http.Server
}

// NewPlatform 创建一个新的 Platform 实例
func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	if config == nil || router == nil || serverCtx == nil {
		return nil, errors.New("platform requires config, router and server context")
	}
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
		server: &http.Server{
			Addr:              config.Api.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start 启动 http 服务, 阻塞直到服务退出
// 调用 Shutdown 后返回 nil
func (p *Platform) Start() error {
	xzap.WithContext(context.Background()).Info("feral api run", zap.String("port", p.config.Api.Port))
	if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed on serve http")
	}
	return nil
}

// Shutdown 等待进行中的请求结束后关闭服务
func (p *Platform) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return p.server.Shutdown(ctx)
}
