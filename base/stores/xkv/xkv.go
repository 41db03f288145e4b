package xkv

import (
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

// Redis 单个 redis 节点配置
type Redis struct {
	Host string `toml:"host" mapstructure:"host" json:"host"`
	Type string `toml:"type" mapstructure:"type" json:"type"` // node | cluster
	Pass string `toml:"pass" mapstructure:"pass" json:"pass"`
}

// Conf KV 存储配置
type Conf struct {
	Redis []*Redis `toml:"redis" mapstructure:"redis" json:"redis"`
}

// Enabled 是否配置了 redis 节点
func (c *Conf) Enabled() bool {
	return c != nil && len(c.Redis) > 0
}

// Store 基于 go-zero kv 的 redis 存储
type Store struct {
	kv.Store
}

// NewStore 创建 KV 存储
func NewStore(c kv.KvConf) *Store {
	return &Store{Store: kv.NewStore(c)}
}

// NewStoreFromConf 将配置转换为 go-zero 的 KvConf 后创建存储
func NewStoreFromConf(c *Conf) *Store {
	var kvConf kv.KvConf
	for _, con := range c.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}
	return NewStore(kvConf)
}
