package model

import "time"

type (
	CreatePostReq struct {
		Title    string `json:"title" binding:"required,max=255"`
		Content  string `json:"content"` // 富文本HTML，原样存储
		MediaURL string `json:"media_url"`
	}

	UpdatePostReq struct {
		Title   string `json:"title" binding:"required,max=255"`
		Content string `json:"content"`
	}

	PostRes struct {
		ID         int64     `json:"id"`
		Title      string    `json:"title"`
		Content    string    `json:"content"`
		MediaURL   string    `json:"media_url,omitempty"`
		AuthorID   int64     `json:"author_id"`
		AuthorName string    `json:"author_name,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
		UpdatedAt  time.Time `json:"updated_at"`
	}
)
