package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"` // 只存bcrypt摘要，永不回传
	Bio          string         `gorm:"type:varchar(500)"`
	ProfilePic   string         `gorm:"type:varchar(512)"` // 头像URL，文件存储不在本服务范围
	IsActive     bool           `gorm:"default:true;index"`
	Version      int            `gorm:"default:1;not null"` // 乐观锁配置
	CreatedAt    time.Time      `gorm:"index;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"` // 软删除标记
}

// TableName 定义映射表名
func (User) TableName() string {
	return "blog_users"
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='用户基础表'").
		AutoMigrate(&User{})
}
