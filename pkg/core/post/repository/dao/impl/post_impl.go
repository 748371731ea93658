package dao

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	cerrors "my-blog-api/pkg/common/errors"
	"my-blog-api/pkg/core/post/model"
	"my-blog-api/pkg/core/post/repository/dao"
)

type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) dao.PostRepository {
	return &GormPostRepository{db: db}
}

// 作者关联只取公开字段
func authorSelect(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

func (r *GormPostRepository) QueryByID(id int64) (model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author", authorSelect).
		Where("id = ?", id).
		First(&post).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Post{}, cerrors.ErrPostNotFound
	case err != nil:
		return model.Post{}, fmt.Errorf("post query failed: %w", cerrors.WrapGormError(err))
	default:
		return post, nil
	}
}

func (r *GormPostRepository) List(authorID int64) ([]model.Post, error) {
	var posts []model.Post
	query := r.db.Preload("Author", authorSelect).Order("created_at DESC")
	if authorID != 0 {
		query = query.Where("author_id = ?", authorID)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("post list failed: %w", cerrors.WrapGormError(err))
	}
	return posts, nil
}

func (r *GormPostRepository) CreatePost(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("post creation failed: %w", cerrors.WrapGormError(err))
	}
	return nil
}

// UpdatePost 行级最后写入生效，文章不做乐观锁
func (r *GormPostRepository) UpdatePost(id int64, title, content string) (model.Post, error) {
	result := r.db.Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return model.Post{}, fmt.Errorf("post update failed: %w", cerrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return model.Post{}, cerrors.ErrPostNotFound
	}
	return r.QueryByID(id)
}

func (r *GormPostRepository) DeletePost(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return fmt.Errorf("post deletion failed: %w", cerrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return cerrors.ErrPostNotFound
	}
	return nil
}

func (r *GormPostRepository) CountByAuthor(authorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("post count failed: %w", cerrors.WrapGormError(err))
	}
	return count, nil
}
