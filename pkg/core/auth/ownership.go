package auth

import (
	cerrors "my-blog-api/pkg/common/errors"
)

// Authorize 所有权检查：资源的变更操作只允许资源归属者执行。
// 编辑和删除使用同一条规则，检查失败返回 ErrForbidden（403），
// 绝不静默放行
func Authorize(requesterID, ownerID int64) error {
	if requesterID != ownerID {
		return cerrors.ErrForbidden
	}
	return nil
}

// AuthorizeSubject 先把任意表示的归属者 id 归一化再比较，
// 用于归属者来源不是 int64 主键的场合
func AuthorizeSubject(requesterID int64, owner interface{}) error {
	ownerID, err := NormalizeSubjectID(owner)
	if err != nil {
		return cerrors.ErrForbidden
	}
	return Authorize(requesterID, ownerID)
}
