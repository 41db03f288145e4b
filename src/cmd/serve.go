package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" // 引入 pprof 用于性能分析
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/src/api/router"
	"github.com/feralaibot/Feral-Ai-website/src/app"
	"github.com/feralaibot/Feral-Ai-website/src/service/svc"
)

// ServeCmd 启动 http api
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "run feral http api.",
	Long:  "run feral http api: content, wallet auth, wallet scan, evolution preview and generator.",
	Run: func(cmd *cobra.Command, args []string) {
		wg := &sync.WaitGroup{}
		wg.Add(1)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		onServeExit := make(chan error, 1)

		go func() {
			defer wg.Done()

			// 1. 读取配置
			cfg, err := loadConfig()
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onServeExit <- err
				return
			}

			// 2. 初始化服务上下文, 日志在这里完成 SetUp
			serverCtx, err := svc.NewServiceContext(cfg)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create service context", zap.Error(err))
				onServeExit <- err
				return
			}
			xzap.WithContext(ctx).Info("feral server start", zap.String("port", cfg.Api.Port))

			// 3. pprof
			if cfg.Monitor.PprofEnable {
				go func() {
					addr := fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort)
					if err := http.ListenAndServe(addr, nil); err != nil {
						xzap.WithContext(ctx).Warn("pprof server exit", zap.Error(err))
					}
				}()
			}

			// 4. 启动 http 服务
			p, err := app.NewPlatform(cfg, router.NewRouter(serverCtx), serverCtx)
			if err != nil {
				onServeExit <- err
				return
			}
			go func() {
				<-ctx.Done()
				if err := p.Shutdown(context.Background()); err != nil {
					xzap.WithContext(ctx).Error("Failed to shutdown http server", zap.Error(err))
				}
			}()
			if err := p.Start(); err != nil {
				onServeExit <- err
			}
		}()

		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
		case err := <-onServeExit:
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
			cancel()
			wg.Wait()
			os.Exit(1)
		}

		cancel()
		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(ServeCmd)
}
