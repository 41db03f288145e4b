package types

const (
	GeneratorTargetZip = "zip"
	GeneratorTargetS3  = "s3"

	HeaderGeneratorRequested = "X-Generator-Requested"
	HeaderGeneratorMinted    = "X-Generator-Minted"
	HeaderGeneratorAttempts  = "X-Generator-Attempts"
)

// GenerateReq multipart 表单中除图层 zip 外的字段
type GenerateReq struct {
	Options string `form:"options"`                                       // JSON 或 YAML 格式的生成配置
	Target  string `form:"target" validate:"omitempty,oneof=zip s3"`      // 默认 zip
	Prefix  string `form:"prefix" validate:"omitempty,max=128,s3_prefix"` // s3 输出目录
}

// GenerateResp 输出到 s3 时的响应
type GenerateResp struct {
	Requested int    `json:"requested"`
	Minted    int    `json:"minted"`
	Attempts  int    `json:"attempts"`
	Partial   bool   `json:"partial"`
	Bucket    string `json:"bucket"`
	Prefix    string `json:"prefix"`
}
