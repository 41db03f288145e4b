package svc

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feralaibot/Feral-Ai-website/base/logger/xzap"
	"github.com/feralaibot/Feral-Ai-website/base/stores/gdb"
	"github.com/feralaibot/Feral-Ai-website/base/stores/xkv"
	"github.com/feralaibot/Feral-Ai-website/src/auth"
	"github.com/feralaibot/Feral-Ai-website/src/common/utils"
	"github.com/feralaibot/Feral-Ai-website/src/config"
	"github.com/feralaibot/Feral-Ai-website/src/dao"
	"github.com/feralaibot/Feral-Ai-website/src/evolution"
	"github.com/feralaibot/Feral-Ai-website/src/generator"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

// Scanner 钱包评分, 带缓存的 Engine 满足该接口
type Scanner interface {
	Evaluate(ctx context.Context, address string) (*reputation.Report, error)
}

type ServerCtx struct {
	C        *config.Config
	DB       *gorm.DB
	Dao      *dao.Dao
	KvStore  *xkv.Store // 未配置 redis 时为 nil
	Indexer  reputation.Indexer
	Scanner  Scanner
	Auth     *auth.Authenticator
	Evolver  *evolution.Evolver
	Allowed  reputation.AllowedCollections
	S3Client generator.ObjectPutter // 未配置 bucket 时为 nil
}

// NewServiceContext 初始化服务上下文
// 该函数负责初始化后端服务所需的所有基础设施组件
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	ctx := context.Background()

	// 1. 初始化日志系统 (Zap Logger)
	if _, err := xzap.SetUp(c.Log); err != nil {
		return nil, err
	}

	// 2. 自定义参数校验规则
	if err := utils.RegisterValidators(); err != nil {
		return nil, errors.Wrap(err, "failed on register validators")
	}

	// 3. 初始化 Redis, 未配置时 nonce 与 session 保存在进程内
	var (
		store     *xkv.Store
		authStore auth.Store
	)
	if c.Kv.Enabled() {
		store = xkv.NewStoreFromConf(&c.Kv)
		authStore = store
	} else {
		mem, err := auth.NewMemoryStore(c.Auth.SessionTTL)
		if err != nil {
			return nil, err
		}
		authStore = mem
		xzap.WithContext(ctx).Warn("redis not configured, wallet sessions are kept in memory")
	}

	// 4. 初始化数据库连接 (GORM), 建表并写入默认内容
	db, err := gdb.NewDB(&c.DB)
	if err != nil {
		return nil, err
	}
	d := dao.New(ctx, db, store)
	if err := d.Migrate(ctx); err != nil {
		return nil, err
	}
	if err := d.SeedContent(ctx); err != nil {
		return nil, err
	}

	// 5. 索引服务与评分引擎. 评分配置读取失败时使用默认配置继续运行
	indexer := reputation.NewHeliusClient(c.Helius)
	policy, err := reputation.LoadPolicy(c.Reputation.PolicyFile)
	if err != nil {
		xzap.WithContext(ctx).Warn("failed on load reputation policy, using defaults",
			zap.String("file", c.Reputation.PolicyFile), zap.Error(err))
	}
	engine := reputation.NewEngine(indexer, policy, reputation.WithPaging(c.Reputation.PageLimit, c.Reputation.MaxPages))
	scanCache, err := reputation.NewScanCache(c.Reputation.CacheTTL, c.Reputation.CacheLimit)
	if err != nil {
		return nil, err
	}

	allowed, err := reputation.LoadAllowedCollections(c.Reputation.AllowedAssetsFile)
	if err != nil {
		xzap.WithContext(ctx).Warn("failed on load allowed assets, asset lookup disabled",
			zap.String("file", c.Reputation.AllowedAssetsFile), zap.Error(err))
	}

	// 6. 进化: 未单独配置集合时沿用 allowed-assets 中的 ferals / milk
	evoCfg := c.Evolution
	if len(evoCfg.AssetCollections) == 0 {
		evoCfg.AssetCollections = allowed.FeralCollections
	}
	if len(evoCfg.CatalystCollections) == 0 {
		evoCfg.CatalystCollections = allowed.MilkCollections
	}

	// 7. S3 (可选)
	var s3Client generator.ObjectPutter
	if c.S3.Bucket != "" {
		client, err := generator.NewS3Client(ctx, c.S3)
		if err != nil {
			return nil, errors.Wrap(err, "failed on create s3 client")
		}
		s3Client = client
	}

	// 8. 组装 ServerCtx 对象
	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithIndexer(indexer),
		WithScanner(reputation.NewCachedEngine(engine, scanCache)),
		WithAuth(auth.New(authStore, c.Auth)),
		WithEvolver(evolution.NewEvolver(indexer, evoCfg)),
		WithAllowedCollections(allowed),
		WithS3Client(s3Client),
	)
	serverCtx.C = c

	return serverCtx, nil
}
