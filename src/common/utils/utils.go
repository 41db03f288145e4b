package utils

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/mr-tron/base58"

	kitvalidator "github.com/feralaibot/Feral-Ai-website/base/kit/validator"
)

const solanaPubkeyLen = 32

var (
	// validatorM 自定义校验规则
	// key: tag 名称, value: 校验函数
	validatorM map[string]validator.Func
	// patternM 正则校验规则
	patternM map[string]string
	// messageM 自定义规则的提示信息, {0} 为字段名
	messageM map[string]string
)

func init() {
	validatorM = map[string]validator.Func{
		"symbol":         rightSymbol,
		"solana_address": solanaAddress,
		"s3_prefix":      regexpValidator,
	}
	patternM = map[string]string{
		// s3 输出目录, 只允许字母数字与 / _ . -
		"s3_prefix": `^[A-Za-z0-9][A-Za-z0-9/_.\-]*$`,
	}
	messageM = map[string]string{
		"symbol":         "{0} must be at most 10 characters",
		"solana_address": "{0} must be a valid Solana address",
		"s3_prefix":      "{0} may only contain letters, digits, '/', '_', '.' and '-'",
	}
}

// RegisterValidators 将自定义规则注册到全局校验器
func RegisterValidators() error {
	for tag, fn := range validatorM {
		if err := kitvalidator.RegisterValidation(tag, fn); err != nil {
			return err
		}
		if msg, ok := messageM[tag]; ok {
			if err := kitvalidator.RegisterTranslation(tag, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	// rightSymbol 集合符号长度小于 11
	rightSymbol validator.Func = func(fl validator.FieldLevel) bool {
		symbol, ok := fl.Field().Interface().(string)
		if ok {
			return len(symbol) <= 10
		}
		return false
	}

	// regexpValidator 根据 tag 名称查找正则并匹配
	regexpValidator validator.Func = func(fl validator.FieldLevel) bool {
		key := fmt.Sprint(fl.Field().Interface())
		pattern, ok := patternM[fl.GetTag()]
		if ok {
			match, _ := regexp.MatchString(pattern, key)
			return match
		}
		return false
	}

	solanaAddress validator.Func = func(fl validator.FieldLevel) bool {
		addr, _ := fl.Field().Interface().(string)
		return IsSolanaAddress(addr)
	}
)

// IsSolanaAddress base58 解码后为 32 字节公钥
func IsSolanaAddress(addr string) bool {
	if addr == "" {
		return false
	}
	b, err := base58.Decode(addr)
	return err == nil && len(b) == solanaPubkeyLen
}
