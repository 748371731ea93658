package handler

import (
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	cerrors "my-blog-api/pkg/common/errors"
)

// 统一错误响应方法
func respondError(c *app.RequestContext, code int, msg string) {
	c.JSON(code, utils.H{
		"error":   msg,
		"code":    code,
		"success": false,
	})
}

// respondRepoError 错误分类到HTTP状态码：
// 404 资源不存在 / 409 唯一性冲突 / 403 越权 / 500 其余内部错误。
// 内部错误细节只进日志不出网
func respondRepoError(c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, cerrors.ErrUserNotFound):
		respondError(c, 404, "user not found")
	case errors.Is(err, cerrors.ErrPostNotFound):
		respondError(c, 404, "post not found")
	case errors.Is(err, cerrors.ErrDuplicateEntry):
		respondError(c, 409, "username/email already exists")
	case errors.Is(err, cerrors.ErrForbidden):
		respondError(c, 403, "not authorized to operate on this resource")
	default:
		hlog.Errorf("internal error: %v", err)
		respondError(c, 500, "internal server error")
	}
}
