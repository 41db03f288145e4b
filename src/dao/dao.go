package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/feralaibot/Feral-Ai-website/base/stores/xkv"
)

// Dao 数据访问对象
// 封装了数据库 (GORM) 和 Redis (KvStore) 的操作
type Dao struct {
	ctx context.Context

	DB      *gorm.DB   // 关系型数据库连接实例 (MySQL/SQLite)
	KvStore *xkv.Store // 键值存储实例 (Redis), 未配置时为 nil
}

// New 创建一个新的 Dao 实例
func New(ctx context.Context, db *gorm.DB, kvStore *xkv.Store) *Dao {
	return &Dao{
		ctx:     ctx,
		DB:      db,
		KvStore: kvStore,
	}
}
