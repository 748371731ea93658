// pkg/common/errors/user_errors.go
package errors

import (
	"errors"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 定义原始错误（业务层统一的错误分类）
var (
	rawErrUserNotFound       = errors.New("user not found")
	rawErrPostNotFound       = errors.New("post not found")
	rawErrDuplicateEntry     = errors.New("username/email already exists")
	rawErrInvalidCredentials = errors.New("invalid credentials")
	rawErrForbidden          = errors.New("not authorized to operate on this resource")
	rawErrDatabaseInternal   = errors.New("database internal error")
)

// 包装成 Hertz 错误类型，Public 错误可直接返回给客户端
var (
	ErrUserNotFound       = hzte.New(rawErrUserNotFound, hzte.ErrorTypePublic, nil)
	ErrPostNotFound       = hzte.New(rawErrPostNotFound, hzte.ErrorTypePublic, nil)
	ErrDuplicateEntry     = hzte.New(rawErrDuplicateEntry, hzte.ErrorTypePublic, nil)
	ErrInvalidCredentials = hzte.New(rawErrInvalidCredentials, hzte.ErrorTypePublic, nil)
	ErrForbidden          = hzte.New(rawErrForbidden, hzte.ErrorTypePublic, nil)
	// 内部错误不向客户端暴露细节，只记录日志
	ErrDatabaseInternal = hzte.New(rawErrDatabaseInternal, hzte.ErrorTypePrivate, nil)
)

// 可选添加带有元数据的构造方法
func NewUserNotFound(meta interface{}) *hzte.Error {
	return hzte.New(rawErrUserNotFound, hzte.ErrorTypePublic, meta)
}

func NewDuplicateEntry(meta interface{}) *hzte.Error {
	return hzte.New(rawErrDuplicateEntry, hzte.ErrorTypePublic, meta)
}
