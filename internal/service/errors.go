package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ==================== 错误类别 ====================

// ErrorKind 流水线错误类别（闭集），调用方按类别分派处理
type ErrorKind string

const (
	ErrAuthentication ErrorKind = "authentication" // 未登录/缺邮箱/无广告主 ID/令牌获取失败
	ErrValidation     ErrorKind = "validation"     // flow 非法、里程非正、解析后缺 make/model
	ErrNotFound       ErrorKind = "not_found"      // 上游查询无结果
	ErrServer         ErrorKind = "server_error"   // 提交被拒或未处理异常
)

// StockError 创建 stock 流水线的统一错误载体
type StockError struct {
	Kind    ErrorKind
	Message string
	Details string
	// Status 镜像给调用方的 HTTP 状态码
	Status int
	// UpstreamBody 上游原始错误响应体，原样保留，调用方可自行再解析
	// 仅 listing 提交被拒时有值
	UpstreamBody string
}

func (e *StockError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ==================== 构造函数 ====================

// NewAuthError 认证类错误
func NewAuthError(message, details string) *StockError {
	return &StockError{Kind: ErrAuthentication, Message: message, Details: details, Status: http.StatusUnauthorized}
}

// NewValidationError 校验类错误
func NewValidationError(message, details string) *StockError {
	return &StockError{Kind: ErrValidation, Message: message, Details: details, Status: http.StatusBadRequest}
}

// NewNotFoundError 上游查无结果
func NewNotFoundError(message, details string) *StockError {
	return &StockError{Kind: ErrNotFound, Message: message, Details: details, Status: http.StatusNotFound}
}

// NewServerError 服务端错误
func NewServerError(message, details string) *StockError {
	return &StockError{Kind: ErrServer, Message: message, Details: details, Status: http.StatusInternalServerError}
}

// NewUpstreamRejectedError 提交被上游拒绝，附带原始响应体
func NewUpstreamRejectedError(message, details, upstreamBody string) *StockError {
	return &StockError{
		Kind:         ErrServer,
		Message:      message,
		Details:      details,
		Status:       http.StatusInternalServerError,
		UpstreamBody: upstreamBody,
	}
}

// AsStockError 取出 StockError；普通 error 统一折叠为 ServerError，不吞掉原始信息
func AsStockError(err error) *StockError {
	var se *StockError
	if errors.As(err, &se) {
		return se
	}
	return NewServerError("服务器内部错误", err.Error())
}
