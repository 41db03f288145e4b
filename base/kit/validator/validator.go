package validator

import (
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		uni := ut.New(en.New())
		trans, _ = uni.GetTranslator("en")
		if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
			panic(err)
		}
	})
	return validate
}

// RegisterValidation 注册自定义校验规则
func RegisterValidation(tag string, fn validator.Func) error {
	return instance().RegisterValidation(tag, fn)
}

// RegisterTranslation 注册自定义规则的提示信息, text 中 {0} 替换为字段名
func RegisterTranslation(tag, text string) error {
	return instance().RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
}

// Verify 按结构体 tag 进行参数校验, 多个字段错误合并为一条信息
func Verify(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
