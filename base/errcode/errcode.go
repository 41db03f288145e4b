package errcode

import (
	"fmt"
	"net/http"
)

// Err 对外暴露的业务错误, Code 为业务码, Status 为 HTTP 状态码
type Err struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Status int    `json:"-"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

func newErr(code int, status int, msg string) *Err {
	return &Err{Code: code, Msg: msg, Status: status}
}

var (
	ErrInvalidParams = newErr(10001, http.StatusBadRequest, "invalid params")
	ErrUnauthorized  = newErr(10002, http.StatusUnauthorized, "wallet session required")
	ErrForbidden     = newErr(10003, http.StatusForbidden, "wallet mismatch")
	ErrTokenExpire   = newErr(10004, http.StatusBadRequest, "nonce is invalid or expired")
	ErrNotFound      = newErr(10005, http.StatusNotFound, "not found")
	ErrSignature     = newErr(10006, http.StatusUnauthorized, "signature verification failed")
	ErrUnexpected    = newErr(50000, http.StatusInternalServerError, "unexpected error")
)

// NewCustomErr 构造自定义提示信息的业务错误 (HTTP 400)
func NewCustomErr(msg string) *Err {
	return newErr(10000, http.StatusBadRequest, msg)
}

// NewInternalErr 构造自定义提示信息的内部错误 (HTTP 500)
func NewInternalErr(msg string) *Err {
	return newErr(50001, http.StatusInternalServerError, msg)
}
