package dao

import (
	"my-blog-api/pkg/core/user/model"
)

// UserRepository 用户存储接口（Credential Store）
type UserRepository interface {
	// QueryByID 按主键查询活跃用户，不含密码哈希
	QueryByID(id int64) (model.User, error)
	// QueryByEmail 按邮箱查询活跃用户，含密码哈希，仅供登录校验
	QueryByEmail(email string) (model.User, error)
	IsUsernameExists(username string) (bool, error)
	IsEmailExists(email string) (bool, error)
	CreateUser(user *model.User) error
	// UpdateProfile 更新资料字段（username/bio/profile_pic）
	UpdateProfile(id int64, fields map[string]interface{}) error
	// GetPasswordHashByID 返回密码哈希，仅供改密/重置流程
	GetPasswordHashByID(id int64) (string, error)
	UpdatePassword(userID int64, newPwdHash string) error
	// DeleteAccount 删除账号并级联删除该作者的全部文章
	DeleteAccount(id int64) error
}
