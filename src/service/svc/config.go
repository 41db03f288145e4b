package svc

import (
	"gorm.io/gorm"

	"github.com/feralaibot/Feral-Ai-website/base/stores/xkv"
	"github.com/feralaibot/Feral-Ai-website/src/auth"
	"github.com/feralaibot/Feral-Ai-website/src/dao"
	"github.com/feralaibot/Feral-Ai-website/src/evolution"
	"github.com/feralaibot/Feral-Ai-website/src/generator"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

// CtxConfig 服务上下文配置构建器
// 用于使用 Option 模式构建 ServerCtx
type CtxConfig struct {
	db       *gorm.DB
	dao      *dao.Dao
	KvStore  *xkv.Store
	indexer  reputation.Indexer
	scanner  Scanner
	auth     *auth.Authenticator
	evolver  *evolution.Evolver
	allowed  reputation.AllowedCollections
	s3Client generator.ObjectPutter
}

type CtxOption func(conf *CtxConfig)

// NewServerCtx 创建新的服务上下文
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:       c.db,
		KvStore:  c.KvStore,
		Dao:      c.dao,
		Indexer:  c.indexer,
		Scanner:  c.scanner,
		Auth:     c.auth,
		Evolver:  c.evolver,
		Allowed:  c.allowed,
		S3Client: c.s3Client,
	}
}

func WithKv(kv *xkv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithIndexer(indexer reputation.Indexer) CtxOption {
	return func(conf *CtxConfig) {
		conf.indexer = indexer
	}
}

func WithScanner(scanner Scanner) CtxOption {
	return func(conf *CtxConfig) {
		conf.scanner = scanner
	}
}

func WithAuth(a *auth.Authenticator) CtxOption {
	return func(conf *CtxConfig) {
		conf.auth = a
	}
}

func WithEvolver(e *evolution.Evolver) CtxOption {
	return func(conf *CtxConfig) {
		conf.evolver = e
	}
}

func WithAllowedCollections(allowed reputation.AllowedCollections) CtxOption {
	return func(conf *CtxConfig) {
		conf.allowed = allowed
	}
}

func WithS3Client(client generator.ObjectPutter) CtxOption {
	return func(conf *CtxConfig) {
		conf.s3Client = client
	}
}
