package logging

// LogConf 日志配置
type LogConf struct {
	ServiceName string `toml:"service_name" mapstructure:"service_name" json:"service_name"` // 服务名, 写入每条日志
	Mode        string `toml:"mode" mapstructure:"mode" json:"mode"`                         // console | file
	Path        string `toml:"path" mapstructure:"path" json:"path"`                         // 日志目录 (file 模式)
	Level       string `toml:"level" mapstructure:"level" json:"level"`                      // debug | info | warn | error
	Encoding    string `toml:"encoding" mapstructure:"encoding" json:"encoding"`             // json | console
	MaxSize     int    `toml:"max_size" mapstructure:"max_size" json:"max_size"`             // 单个文件大小上限 (MB)
	MaxBackups  int    `toml:"max_backups" mapstructure:"max_backups" json:"max_backups"`    // 保留的旧文件数量
	KeepDays    int    `toml:"keep_days" mapstructure:"keep_days" json:"keep_days"`          // 旧文件保留天数
	Compress    bool   `toml:"compress" mapstructure:"compress" json:"compress"`             // 是否压缩归档文件
}

const (
	ModeConsole = "console"
	ModeFile    = "file"
)
