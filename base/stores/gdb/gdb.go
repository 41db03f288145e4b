package gdb

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMysql  = "mysql"
	DriverSqlite = "sqlite"
)

// Config 数据库配置
type Config struct {
	Driver          string `toml:"driver" mapstructure:"driver" json:"driver"` // mysql | sqlite
	User            string `toml:"user" mapstructure:"user" json:"user"`
	Password        string `toml:"password" mapstructure:"password" json:"password"`
	Host            string `toml:"host" mapstructure:"host" json:"host"`
	Port            int    `toml:"port" mapstructure:"port" json:"port"`
	Database        string `toml:"database" mapstructure:"database" json:"database"` // sqlite 下为文件路径
	MaxIdleConns    int    `toml:"max_idle_conns" mapstructure:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns    int    `toml:"max_open_conns" mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxConnLifetime int    `toml:"max_conn_lifetime" mapstructure:"max_conn_lifetime" json:"max_conn_lifetime"` // 秒
	LogLevel        string `toml:"log_level" mapstructure:"log_level" json:"log_level"`                         // silent | error | warn | info
}

// DSN 生成 mysql 连接串
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// NewDB 根据配置创建 gorm 连接
func NewDB(c *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case DriverSqlite:
		dialector = sqlite.Open(c.Database)
	case DriverMysql, "":
		dialector = mysql.Open(c.DSN())
	default:
		return nil, errors.Errorf("unsupported db driver: %s", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(c.LogLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on open db")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed on get sql db")
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(c.MaxConnLifetime) * time.Second)
	}

	return db, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
