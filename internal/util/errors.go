package util

import (
	"errors"
	"fmt"
)

// ErrConflict 乐观锁重试耗尽
var ErrConflict = errors.New("concurrent update conflict")

// NotFoundError 引用的资源不存在，不应重试
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s not found", resource)}
}

// ValidationError 输入不合法，在任何写入之前返回
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConfigurationError 部署或种子数据缺失导致的致命错误
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

func NewConfiguration(message string) *ConfigurationError {
	return &ConfigurationError{Message: message}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
