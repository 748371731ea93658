package dao

import (
	"my-blog-api/pkg/core/post/model"
)

// PostRepository 文章存储接口
type PostRepository interface {
	// QueryByID 按主键查询，附带作者的公开字段（id/username）
	QueryByID(id int64) (model.Post, error)
	// List 列出文章，authorID 为 0 时不过滤作者
	List(authorID int64) ([]model.Post, error)
	CreatePost(post *model.Post) error
	// UpdatePost 只允许修改标题与内容，所有权检查由调用方先行完成
	UpdatePost(id int64, title, content string) (model.Post, error)
	DeletePost(id int64) error
	CountByAuthor(authorID int64) (int64, error)
}
