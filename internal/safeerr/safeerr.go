// Package safeerr decides which error text may reach API clients.
package safeerr

import (
	"errors"
	"strings"
)

// safePrefixes are message prefixes written for end users. Anything else is
// internal detail and is replaced by the caller's fallback.
var safePrefixes = []string{
	"请",
	"文本长度超过",
	"描述文本过长",
	"仅支持",
	"模型",
	"格式错误",
	"产品分析失败",
	"带货内容包生成失败",
	"文案生成失败",
	"处理失败",
	"网络错误",
	"模型配置错误",
}

// InputError marks a request-shape violation. It maps to HTTP 400.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// Input builds an InputError.
func Input(msg string) error {
	return &InputError{Msg: msg}
}

// IsInput reports whether err wraps an InputError.
func IsInput(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Safe reports whether msg starts with a whitelisted prefix.
func Safe(msg string) bool {
	for _, p := range safePrefixes {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

// Message returns the client-facing text for err. Input errors surface their
// own message. In development mode every message passes through.
func Message(err error, fallback string, development bool) string {
	if err == nil {
		return fallback
	}
	var ie *InputError
	if errors.As(err, &ie) && Safe(ie.Msg) {
		return ie.Msg
	}
	msg := err.Error()
	if Safe(msg) || development {
		return msg
	}
	return fallback
}
