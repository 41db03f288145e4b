package xhttp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feralaibot/Feral-Ai-website/base/errcode"
)

// Response 统一响应结构
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// OkJson 返回成功响应
func OkJson(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "ok", Data: data})
}

// Error 返回错误响应
// errcode.Err 使用自身的状态码与业务码, 其他错误一律视为 500
func Error(c *gin.Context, err error) {
	var e *errcode.Err
	if !errors.As(err, &e) {
		e = errcode.ErrUnexpected
	}
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, Response{Code: e.Code, Msg: e.Msg})
}
