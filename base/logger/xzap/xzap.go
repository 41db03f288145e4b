package xzap

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	logging "github.com/feralaibot/Feral-Ai-website/base/logger"
)

type ctxKey struct{}

// RequestIDKey 请求 ID 在 context 中的 key, 由请求日志中间件写入
var RequestIDKey = ctxKey{}

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// SetUp 根据配置初始化全局 zap logger
// console 模式输出到 stdout, file 模式通过 lumberjack 进行滚动切割
func SetUp(c logging.LogConf) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if c.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	switch c.Mode {
	case logging.ModeFile:
		if err := os.MkdirAll(c.Path, 0o755); err != nil {
			return nil, err
		}
		name := c.ServiceName
		if name == "" {
			name = "app"
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(c.Path, name+".log"),
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.KeepDays,
			Compress:   c.Compress,
		})
	default:
		sink = zapcore.Lock(os.Stdout)
	}

	logger := zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller())
	if c.ServiceName != "" {
		logger = logger.With(zap.String("service", c.ServiceName))
	}
	global.Store(logger)
	return logger, nil
}

// ReplaceLogger 替换全局 logger, 主要用于测试
func ReplaceLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(l)
}

// WithContext 返回带有请求上下文字段的 logger
func WithContext(ctx context.Context) *zap.Logger {
	l := global.Load()
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return l.With(zap.String("request_id", id))
	}
	return l
}
