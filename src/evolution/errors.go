package evolution

import (
	"github.com/pkg/errors"
)

// Code 进化失败原因
type Code string

const (
	CodeMissingAssets      Code = "missing-assets"
	CodeInvalidTier        Code = "invalid-tier"
	CodeTransactionFailure Code = "transaction-failure"
	CodeMalformedMetadata  Code = "malformed-metadata"
	CodeOwnershipFailed    Code = "ownership-failed"
)

var messages = map[Code]string{
	CodeMissingAssets:      "Missing required assets for evolution.",
	CodeInvalidTier:        "Catalyst tier is invalid. Expected 1, 2, or 3.",
	CodeTransactionFailure: "Evolution transaction failed. Please try again.",
	CodeMalformedMetadata:  "Metadata is malformed or missing attributes.",
	CodeOwnershipFailed:    "Wallet does not own the required asset.",
}

// Error 带错误码的进化错误
type Error struct {
	Code   Code
	Detail string
	cause  error
}

func newError(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

func (e *Error) Error() string {
	msg := messages[e.Code]
	if e.Detail != "" {
		msg += " " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf 取出错误码, 非进化错误返回空
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
