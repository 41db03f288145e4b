package utils

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Retry 通用重试函数
// @param name: 操作名称(用于错误提示)
// @param attempts: 最大尝试次数, 小于 1 时按 1 处理
// @param sleep: 每次重试间隔时间
// @param fn: 需要执行的函数, 返回 error 表示失败需要重试
// @return error: 所有尝试都失败时返回最后一次的错误; ctx 结束时返回 ctx.Err()
func Retry(ctx context.Context, name string, attempts int, sleep time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		// 执行函数, 如果无错误则直接返回成功
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		// 等待指定时间后继续下一次尝试
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	// 所有尝试都失败
	return errors.Wrapf(err, "%s: retry time over", name)
}
