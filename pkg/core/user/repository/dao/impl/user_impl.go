package dao

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cerrors "my-blog-api/pkg/common/errors"
	postmodel "my-blog-api/pkg/core/post/model"
	"my-blog-api/pkg/core/user/model"
	"my-blog-api/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) dao.UserRepository {
	return &GormUserRepository{db: db}
}

// User查询方法实现，结果不携带密码哈希
func (r *GormUserRepository) QueryByID(id int64) (model.User, error) {
	var user model.User
	err := r.db.Select("id", "username", "email", "bio", "profile_pic", "created_at", "updated_at", "version").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, cerrors.ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("user query failed: %w", cerrors.WrapGormError(err))
	default:
		return user, nil
	}
}

// QueryByEmail 登录路径使用，携带密码哈希
func (r *GormUserRepository) QueryByEmail(email string) (model.User, error) {
	var user model.User
	err := r.db.Where("email = ? AND is_active = ?", email, true).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, cerrors.ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("user query failed: %w", cerrors.WrapGormError(err))
	default:
		return user, nil
	}
}

// Check username existence with active status
func (r *GormUserRepository) IsUsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("username = ? AND is_active = ?", username, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", cerrors.WrapGormError(err))
	}
	return count > 0, nil
}

// Check email existence with active status
func (r *GormUserRepository) IsEmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("email = ? AND is_active = ?", email, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", cerrors.WrapGormError(err))
	}
	return count > 0, nil
}

// Create new user with transaction
func (r *GormUserRepository) CreateUser(user *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if cerrors.IsDuplicateError(err) {
				return cerrors.ErrDuplicateEntry
			}
			return fmt.Errorf("user creation failed: %w", cerrors.WrapGormError(err))
		}
		return nil
	})
}

// UpdateProfile 只更新传入的资料字段
func (r *GormUserRepository) UpdateProfile(id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	result := r.db.Model(&model.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(fields)
	if result.Error != nil {
		if cerrors.IsDuplicateError(result.Error) {
			return cerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("profile update failed: %w", cerrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return cerrors.ErrUserNotFound
	}
	return nil
}

// Get stored credential digest for password change verification
func (r *GormUserRepository) GetPasswordHashByID(id int64) (string, error) {
	var user model.User
	err := r.db.Select("password_hash", "id").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", cerrors.ErrUserNotFound
	case err != nil:
		return "", fmt.Errorf("password lookup failed: %w", cerrors.WrapGormError(err))
	default:
		return user.PasswordHash, nil
	}
}

// Update password with version control
func (r *GormUserRepository) UpdatePassword(userID int64, newPwdHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", userID, true).
			First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cerrors.ErrUserNotFound
			}
			return cerrors.WrapGormError(err)
		}

		result := tx.Model(&model.User{}).
			Where("id = ? AND version = ?", userID, user.Version).
			Updates(map[string]interface{}{
				"password_hash": newPwdHash,
				"version":       user.Version + 1,
				"updated_at":    time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("password update failed: %w", cerrors.WrapGormError(result.Error))
		}

		if result.RowsAffected == 0 {
			return cerrors.ErrUserNotFound
		}
		return nil
	})
}

// DeleteAccount 账号与其文章在同一事务内删除，
// 保证删除后不存在该作者的残留文章
func (r *GormUserRepository) DeleteAccount(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return fmt.Errorf("account deletion failed: %w", cerrors.WrapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return cerrors.ErrUserNotFound
		}

		if err := tx.Where("author_id = ?", id).Delete(&postmodel.Post{}).Error; err != nil {
			return fmt.Errorf("post cascade deletion failed: %w", cerrors.WrapGormError(err))
		}
		return nil
	})
}
