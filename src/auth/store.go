package auth

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/collection"
)

// Store 带过期时间的字符串存储, *xkv.Store (redis) 直接满足该接口
type Store interface {
	Setex(key, value string, seconds int) error
	Get(key string) (string, error)
	// Del 返回实际删除的 key 数量, 用于保证 nonce 只能被消费一次
	Del(keys ...string) (int, error)
}

// MemoryStore 未配置 redis 时使用的进程内存储
type MemoryStore struct {
	mu    sync.Mutex
	cache *collection.Cache
}

func NewMemoryStore(maxTTL time.Duration) (*MemoryStore, error) {
	if maxTTL <= 0 {
		maxTTL = DefaultSessionTTL
	}
	c, err := collection.NewCache(maxTTL, collection.WithName("wallet-auth"))
	if err != nil {
		return nil, errors.Wrap(err, "failed on create auth cache")
	}
	return &MemoryStore{cache: c}, nil
}

func (s *MemoryStore) Setex(key, value string, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.SetWithExpire(key, value, time.Duration(seconds)*time.Second)
	return nil
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(key)
	if !ok {
		return "", nil
	}
	str, _ := v.(string)
	return str, nil
}

func (s *MemoryStore) Del(keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, k := range keys {
		if _, ok := s.cache.Get(k); ok {
			s.cache.Del(k)
			n++
		}
	}
	return n, nil
}
