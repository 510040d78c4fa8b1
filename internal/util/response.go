package util

import (
	"errors"
	"nihongolab_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// RespondError 将服务层错误映射为 HTTP 响应
func RespondError(c *gin.Context, err error) {
	var (
		notFound   *NotFoundError
		validation *ValidationError
		cfgErr     *ConfigurationError
	)
	switch {
	case errors.As(err, &notFound):
		NotFound(c, notFound.Message)
	case errors.As(err, &validation):
		BadRequest(c, validation.Error())
	case errors.Is(err, ErrConflict):
		Error(c, http.StatusConflict, "Concurrent update, please retry")
	case errors.As(err, &cfgErr):
		logger.Log.Error("Configuration error", zap.Error(err))
		InternalServerError(c)
	default:
		LogInternalError(c, err)
	}
}
