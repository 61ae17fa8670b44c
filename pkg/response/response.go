// Package response 提供统一的 HTTP 响应结构
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loganrenz/trade-io-sub000/pkg/errs"
)

// Body 统一响应结构
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// ErrorWithStatus 携带 HTTP 状态码的错误响应
func ErrorWithStatus(c *gin.Context, status int, message string, code string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
		"error":   code,
	})
}

// Error 按错误类型映射 HTTP 状态码后写出错误响应
// 未识别的错误一律 500，不向客户端泄漏内部细节
func Error(c *gin.Context, err error) {
	var (
		validationErr   *errs.ValidationError
		symbolErr       *errs.InvalidSymbolError
		orderErr        *errs.InvalidOrderError
		fundsErr        *errs.InsufficientFundsError
		marketClosedErr *errs.MarketClosedError
		positionErr     *errs.PositionLimitError
		concurrencyErr  *errs.ConcurrencyError
		notFoundErr     *errs.NotFoundError
		forbiddenErr    *errs.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.As(err, &symbolErr):
		ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "INVALID_SYMBOL")
	case errors.As(err, &orderErr):
		ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "INVALID_ORDER")
	case errors.As(err, &fundsErr):
		ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "INSUFFICIENT_FUNDS")
	case errors.As(err, &marketClosedErr):
		ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "MARKET_CLOSED")
	case errors.As(err, &positionErr):
		ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "POSITION_LIMIT")
	case errors.As(err, &concurrencyErr):
		ErrorWithStatus(c, http.StatusConflict, err.Error(), "VERSION_CONFLICT")
	case errors.As(err, &notFoundErr):
		ErrorWithStatus(c, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.As(err, &forbiddenErr):
		ErrorWithStatus(c, http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "INTERNAL")
	}
}
