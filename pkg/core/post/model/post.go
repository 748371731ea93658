package model

import (
	"time"

	"gorm.io/gorm"

	usermodel "my-blog-api/pkg/core/user/model"
)

type Post struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Title    string `gorm:"type:varchar(255);not null"`
	Content  string `gorm:"type:longtext"` // 富文本HTML，服务端当作不透明内容
	MediaURL string `gorm:"type:varchar(512)"`
	// 每篇文章归属且仅归属一个作者，变更操作以此做所有权检查
	AuthorID  int64          `gorm:"index;not null"`
	Author    usermodel.User `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time      `gorm:"index;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName 定义映射表名
func (Post) TableName() string {
	return "blog_posts"
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='文章表'").
		AutoMigrate(&Post{})
}
