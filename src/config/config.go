package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	logging "github.com/feralaibot/Feral-Ai-website/base/logger"
	"github.com/feralaibot/Feral-Ai-website/base/stores/gdb"
	"github.com/feralaibot/Feral-Ai-website/base/stores/xkv"
	"github.com/feralaibot/Feral-Ai-website/src/auth"
	"github.com/feralaibot/Feral-Ai-website/src/evolution"
	"github.com/feralaibot/Feral-Ai-website/src/generator"
	"github.com/feralaibot/Feral-Ai-website/src/reputation"
)

const EnvPrefix = "FERAL"

// Config 全局配置
type Config struct {
	Api        Api                           `toml:"api" mapstructure:"api" json:"api"`
	Log        logging.LogConf               `toml:"log" mapstructure:"log" json:"log"`
	Kv         xkv.Conf                      `toml:"kv" mapstructure:"kv" json:"kv"`
	DB         gdb.Config                    `toml:"db" mapstructure:"db" json:"db"`
	Helius     reputation.HeliusConfig       `toml:"helius" mapstructure:"helius" json:"helius"`
	Reputation Reputation                    `toml:"reputation" mapstructure:"reputation" json:"reputation"`
	Holdings   reputation.AccessRequirements `toml:"holdings" mapstructure:"holdings" json:"holdings"`
	Auth       auth.Config                   `toml:"auth" mapstructure:"auth" json:"auth"`
	Evolution  evolution.Config              `toml:"evolution" mapstructure:"evolution" json:"evolution"`
	Generator  Generator                     `toml:"generator" mapstructure:"generator" json:"generator"`
	S3         generator.S3Config            `toml:"s3" mapstructure:"s3" json:"s3"`
	Monitor    Monitor                       `toml:"monitor" mapstructure:"monitor" json:"monitor"`
}

// Api http 服务
type Api struct {
	Port   string `toml:"port" mapstructure:"port" json:"port"`
	MaxNum int64  `toml:"max_num" mapstructure:"max_num" json:"max_num"` // 上传文件大小上限 (MB)
}

// Reputation 钱包评分
type Reputation struct {
	PolicyFile        string        `toml:"policy_file" mapstructure:"policy_file" json:"policy_file"`                         // wallet-reputation.json
	AllowedAssetsFile string        `toml:"allowed_assets_file" mapstructure:"allowed_assets_file" json:"allowed_assets_file"` // allowed-assets.json
	PageLimit         int           `toml:"page_limit" mapstructure:"page_limit" json:"page_limit"`
	MaxPages          int           `toml:"max_pages" mapstructure:"max_pages" json:"max_pages"`
	CacheTTL          time.Duration `toml:"cache_ttl" mapstructure:"cache_ttl" json:"cache_ttl"`
	CacheLimit        int           `toml:"cache_limit" mapstructure:"cache_limit" json:"cache_limit"`
}

// Generator 生成器默认参数
type Generator struct {
	Width     int `toml:"width" mapstructure:"width" json:"width"`
	Height    int `toml:"height" mapstructure:"height" json:"height"`
	MaxSupply int `toml:"max_supply" mapstructure:"max_supply" json:"max_supply"` // http 接口允许的最大数量
}

// Monitor 监控相关配置
type Monitor struct {
	PprofEnable   bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"`
	PprofPort     int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`
	MetricsEnable bool  `toml:"metrics_enable" mapstructure:"metrics_enable" json:"metrics_enable"`
}

// setDefaults 配置文件中缺失的项
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.max_num", 64)
	v.SetDefault("log.service_name", "feral")
	v.SetDefault("log.mode", logging.ModeConsole)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("db.driver", gdb.DriverSqlite)
	v.SetDefault("db.database", "./data/feral.db")
	// 敏感项只通过环境变量注入时, viper 需要先知道这些 key
	v.SetDefault("helius.api_key", "")
	v.SetDefault("helius.timeout", 15*time.Second)
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("reputation.policy_file", "./config/wallet-reputation.json")
	v.SetDefault("reputation.allowed_assets_file", "./config/allowed-assets.json")
	v.SetDefault("reputation.page_limit", reputation.DefaultPageLimit)
	v.SetDefault("reputation.max_pages", reputation.DefaultMaxPages)
	v.SetDefault("reputation.cache_ttl", reputation.DefaultScanTTL)
	v.SetDefault("reputation.cache_limit", reputation.DefaultScanLimit)
	v.SetDefault("auth.nonce_ttl", auth.DefaultNonceTTL)
	v.SetDefault("auth.session_ttl", auth.DefaultSessionTTL)
	v.SetDefault("generator.width", 1024)
	v.SetDefault("generator.height", 1024)
	v.SetDefault("generator.max_supply", 10000)
	v.SetDefault("monitor.metrics_enable", true)
}

// NewViper 创建带默认值和环境变量映射的 viper, 如 FERAL_HELIUS_API_KEY
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// UnmarshalConfig 加载并解析指定路径的配置文件
func UnmarshalConfig(configFilePath string) (*Config, error) {
	v := NewViper()
	v.SetConfigFile(configFilePath)
	return Unmarshal(v)
}

// Unmarshal 读取 v 已设置的配置文件并解析
func Unmarshal(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed on read config")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed on decode config")
	}
	return &c, nil
}
